/*
Package x contains some standard extensions

Extensions implement common functionality (auth, cash, streams) and
are combined together to construct an application. Packages in x
should be usable by multiple applications and may be mixed with app
specific extensions.
*/
package x
