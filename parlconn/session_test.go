/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlconn

import (
	"crypto/tls"
	"sync"
	"testing"
	"time"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
)

// exchangeUntilSettled shuttles ciphertext between two Sessions for
// maxRounds rounds, sleeping a millisecond after each round in which
// neither side produced any.
// chunkSize caps how many bytes move per PushIncomingCipher call,
// simulating transports with different MTUs.
func exchangeUntilSettled(client, server parltls.Session, chunkSize int, maxRounds int) {
	for i := 0; i < maxRounds; i++ {
		progressed := false
		progressed = relay(client, server, chunkSize) || progressed
		progressed = relay(server, client, chunkSize) || progressed
		if !progressed {
			time.Sleep(time.Millisecond)
		}
	}
}

// relay drains from's outgoing cipher queue into to's incoming cipher
// queue, chunkSize bytes at a time, and reports whether anything moved
func relay(from, to parltls.Session, chunkSize int) (progressed bool) {
	var buf []byte
	if n, _ := from.PopOutgoingCipher(&buf); n == 0 {
		return false
	}
	for len(buf) > 0 {
		k := chunkSize
		if k > len(buf) || k <= 0 {
			k = len(buf)
		}
		to.PushIncomingCipher(buf[:k])
		buf = buf[k:]
	}
	return true
}

// genCA generates a self-signed authority
func genCA(t *testing.T) (ca *parltls.Certificate, caKey parltls.Key) {
	t.Helper()
	var err error
	if caKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"}); err != nil {
		t.Fatal(err)
	}
	if ca, err = parlca.GenerateSelfSigned(parltls.NewDistinguishedName("TEST.AUTHORITY", ""), caKey, parlca.CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	return
}

// genLeaf generates a leaf certificate signed by ca/caKey, carrying san
func genLeaf(t *testing.T, ca *parltls.Certificate, caKey parltls.Key, cn string, san []parltls.SAN) (leaf *parltls.Certificate, leafKey parltls.Key) {
	t.Helper()
	var err error
	if leafKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"}); err != nil {
		t.Fatal(err)
	}
	if leaf, err = parlca.GenerateSigned(parltls.NewDistinguishedName(cn, ""), leafKey, ca, caKey, parlca.CertOptions{SAN: san}); err != nil {
		t.Fatal(err)
	}
	return
}

// testCA generates a self-signed authority and a leaf certificate signed
// by it, with the SAN entries supplied
func testCA(t *testing.T, leafCN string, san []parltls.SAN) (ca *parltls.Certificate, caKey parltls.Key, leaf *parltls.Certificate, leafKey parltls.Key) {
	t.Helper()
	ca, caKey = genCA(t)
	leaf, leafKey = genLeaf(t, ca, caKey, leafCN, san)
	return
}

// scenario 4: mutual TLS, both sides present and verify a certificate,
// application data flows both ways and shutdown completes cleanly.
// Run across two simulated transport chunk sizes.
func TestMutualTLSSuccess(t *testing.T) {
	for _, chunkSize := range []int{1, 4096} {
		ca, caKey, serverCert, serverKey := testCA(t, "server.test", []parltls.SAN{{Kind: parltls.SANDNSName, DNS: "server.test"}})
		clientCert, clientKey := genLeaf(t, ca, caKey, "client.test", nil)

		serverOptions := &parltls.Options{
			AuthMode:    parltls.AuthModeVerifyPeer,
			Authorities: []*parltls.Certificate{ca},
			Own:         &parltls.Identity{Certificate: serverCert, Key: serverKey},
		}
		clientOptions := &parltls.Options{
			AuthMode:    parltls.AuthModeVerifyPeer,
			Authorities: []*parltls.Certificate{ca},
			Own:         &parltls.Identity{Certificate: clientCert, Key: clientKey},
		}

		server, err := NewSession(parltls.RoleServer, serverOptions)
		if err != nil {
			t.Fatalf("chunk %d: NewSession server %v", chunkSize, err)
		}
		client, err := NewSession(parltls.RoleClient, clientOptions)
		if err != nil {
			t.Fatalf("chunk %d: NewSession client %v", chunkSize, err)
		}

		var wg sync.WaitGroup
		var serverErr, clientErr error
		wg.Add(2)
		server.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
			serverErr = err
			wg.Done()
		})
		client.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
			clientErr = err
			wg.Done()
		})

		exchangeUntilSettled(client, server, chunkSize, 2000)
		wg.Wait()

		if serverErr != nil {
			t.Fatalf("chunk %d: server handshake %v", chunkSize, serverErr)
		}
		if clientErr != nil {
			t.Fatalf("chunk %d: client handshake %v", chunkSize, clientErr)
		}
		if client.State() != parltls.StateEstablished {
			t.Fatalf("chunk %d: client state %v", chunkSize, client.State())
		}
		if server.State() != parltls.StateEstablished {
			t.Fatalf("chunk %d: server state %v", chunkSize, server.State())
		}

		if err = client.PushOutgoingPlain([]byte("Hello, server!")); err != nil {
			t.Fatalf("chunk %d: client push %v", chunkSize, err)
		}
		if err = server.PushOutgoingPlain([]byte("Hello, client!")); err != nil {
			t.Fatalf("chunk %d: server push %v", chunkSize, err)
		}
		exchangeUntilSettled(client, server, chunkSize, 2000)

		var serverReceived, clientReceived []byte
		server.PopIncomingPlain(&serverReceived)
		client.PopIncomingPlain(&clientReceived)
		if string(serverReceived) != "Hello, server!" {
			t.Errorf("chunk %d: server received %q", chunkSize, serverReceived)
		}
		if string(clientReceived) != "Hello, client!" {
			t.Errorf("chunk %d: client received %q", chunkSize, clientReceived)
		}

		client.Shutdown()
		server.Shutdown()
		exchangeUntilSettled(client, server, chunkSize, 2000)
		if !client.IsShutdownFinished() {
			t.Errorf("chunk %d: client shutdown not finished", chunkSize)
		}
		if !server.IsShutdownFinished() {
			t.Errorf("chunk %d: server shutdown not finished", chunkSize)
		}

		client.Close()
		server.Close()
	}
}

// scenario 5: a client ValidationFunc that rejects the server certificate
// drives the handshake to KindUnauthorized and StateFailed; subsequent
// pushes fail with KindInvalid
func TestValidationRejection(t *testing.T) {
	ca, caKey, serverCert, serverKey := testCA(t, "server.test", nil)

	serverOptions := &parltls.Options{
		Own: &parltls.Identity{Certificate: serverCert, Key: serverKey},
	}
	clientOptions := &parltls.Options{
		AuthMode:    parltls.AuthModeVerifyPeer,
		Authorities: []*parltls.Certificate{ca},
		Validate:    func(peer *parltls.Certificate) bool { return false },
	}
	_ = caKey

	server, err := NewSession(parltls.RoleServer, serverOptions)
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewSession(parltls.RoleClient, clientOptions)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var clientErr error
	wg.Add(1)
	server.InitiateHandshake(nil)
	client.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
		clientErr = err
		wg.Done()
	})

	exchangeUntilSettled(client, server, 4096, 2000)
	wg.Wait()

	if clientErr == nil {
		t.Fatal("expected validation rejection error")
	}
	if parltls.KindOf(clientErr) != parltls.KindUnauthorized {
		t.Errorf("kind %v exp %v", parltls.KindOf(clientErr), parltls.KindUnauthorized)
	}
	if client.State() != parltls.StateFailed {
		t.Errorf("client state %v exp failed", client.State())
	}

	if err = client.PushOutgoingPlain([]byte("should not send")); parltls.KindOf(err) != parltls.KindInvalid {
		t.Errorf("push on failed session: kind %v exp %v", parltls.KindOf(err), parltls.KindInvalid)
	}

	client.Close()
	server.Close()
}

// scenario 6: a server with per-host SNI options dispatches based on the
// client's requested ServerName
func TestSNIDispatch(t *testing.T) {
	ca, caKey := genCA(t)
	certOne, keyOne := genLeaf(t, ca, caKey, "one.test", []parltls.SAN{{Kind: parltls.SANDNSName, DNS: "one.test"}})
	certTwo, keyTwo := genLeaf(t, ca, caKey, "two.test", []parltls.SAN{{Kind: parltls.SANDNSName, DNS: "two.test"}})

	defaultOptions := &parltls.Options{
		Own: &parltls.Identity{Certificate: certOne, Key: keyOne},
		SNI: map[string]*parltls.Options{
			"two.test": {Own: &parltls.Identity{Certificate: certTwo, Key: keyTwo}},
		},
	}
	clientOptions := &parltls.Options{
		AuthMode:    parltls.AuthModeVerifyPeer,
		Authorities: []*parltls.Certificate{ca},
		ServerName:  "two.test",
	}

	server, err := NewSession(parltls.RoleServer, defaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewSession(parltls.RoleClient, clientOptions)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var clientErr error
	var peerCert *parltls.Certificate
	wg.Add(1)
	server.InitiateHandshake(nil)
	client.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
		clientErr = err
		peerCert = peer
		wg.Done()
	})

	exchangeUntilSettled(client, server, 4096, 2000)
	wg.Wait()

	if clientErr != nil {
		t.Fatalf("handshake %v", clientErr)
	}
	if peerCert == nil || !peerCert.Equal(certTwo) {
		t.Error("client did not receive the SNI-selected certificate")
	}

	client.Close()
	server.Close()
}

// scenario 7: disjoint version ranges fail the handshake on both sides
// with KindInvalid, and no plaintext is ever delivered
func TestVersionMismatch(t *testing.T) {
	_, _, serverCert, serverKey := testCA(t, "server.test", nil)

	serverOptions := &parltls.Options{
		Own:        &parltls.Identity{Certificate: serverCert, Key: serverKey},
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}
	clientOptions := &parltls.Options{
		MinVersion: tls.VersionTLS13,
		MaxVersion: tls.VersionTLS13,
	}

	server, err := NewSession(parltls.RoleServer, serverOptions)
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewSession(parltls.RoleClient, clientOptions)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var serverErr, clientErr error
	wg.Add(2)
	server.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
		serverErr = err
		wg.Done()
	})
	client.InitiateHandshake(func(err error, peer *parltls.Certificate, detail string) {
		clientErr = err
		wg.Done()
	})

	exchangeUntilSettled(client, server, 4096, 2000)
	wg.Wait()

	if clientErr == nil || parltls.KindOf(clientErr) != parltls.KindInvalid {
		t.Errorf("client kind %v exp %v", parltls.KindOf(clientErr), parltls.KindInvalid)
	}
	if serverErr == nil || parltls.KindOf(serverErr) != parltls.KindInvalid {
		t.Errorf("server kind %v exp %v", parltls.KindOf(serverErr), parltls.KindInvalid)
	}
	if client.HasIncomingPlain() || server.HasIncomingPlain() {
		t.Error("plaintext delivered despite version mismatch")
	}

	client.Close()
	server.Close()
}
