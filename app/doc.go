/*
Package app contains the pieces that turn the extension handlers into a
running application. A Service executes one message at a time as a single
atomic change of the store: the keys a message may touch are locked, the
handler runs in a cache wrap that is only written on success, and the
events of a successful message are passed to the configured emitters.

Messages that touch different escrows and disjoint wallets never share a
lock and can be delivered in parallel.
*/
package app
