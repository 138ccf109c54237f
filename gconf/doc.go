/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration object, stored under the
"_c:<package name>" key. The object is loaded from the "conf" section of the
genesis file and read back with Load whenever an operation needs it.

Not being able to get a configuration value is a critical condition for the
application, there is no recovery path for the client. Load returns
ErrNotFound so that the caller can fail the operation.
*/
package gconf
