/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (assigned by an id Sequence in this module).
* It may possess one or more secondary indexes (1:1 or 1:N).
* Easy queries for one and for small sets.
*/
package orm
