/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package parlconn implements [parltls.Session]: a non-blocking,
// buffer-driven TLS state machine built on crypto/tls.
//
// crypto/tls only drives a stream abstraction, net.Conn, that blocks.
// parlconn bridges the two models with memConn, an in-memory net.Conn
// whose Read blocks a private goroutine — never the caller — until
// PushIncomingCipher supplies bytes, and whose Write is a plain
// unbounded append drained by PopOutgoingCipher. All blocking
// crypto/tls activity (handshake negotiation, the post-handshake record
// read pump) runs on that private goroutine. Most exported Session
// methods only lock a mutex, read or append a queue, and return;
// PushOutgoingPlain, Shutdown and Close call the crypto/tls connection
// directly, which only appends ciphertext to the unbounded
// outgoing-cipher queue or closes the connection.
package parlconn
