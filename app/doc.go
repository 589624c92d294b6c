/*
Package app assembles extensions into a processing stack: a Router
dispatching messages to their handlers, wrapped by a chain of
decorators providing the cross-cutting behavior (logging, panic
recovery, savepoints, result tagging).
*/
package app
