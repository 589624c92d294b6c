/*
Package streamtest provides mocks and helpers shared by extension
tests. Keep implementations here free of test assertions so they can
be composed in any scenario.
*/
package streamtest
