package delivery

import (
	"encoding/base64"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
)

// fakeSMTPServer is a minimal in-process SMTP server for adapter tests
type fakeSMTPServer struct {
	listener net.Listener

	password   string
	rejectRcpt string
	offerTLS   bool

	mu       sync.Mutex
	from     string
	rcpts    []string
	data     string
	authUser string
	sessions int
}

func newFakeSMTPServer(t *testing.T, password string) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeSMTPServer{listener: ln, password: password}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTPServer) handle(conn net.Conn) {
	defer conn.Close()
	tp := textproto.NewConn(conn)

	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()

	_ = tp.PrintfLine("220 127.0.0.1 ESMTP fake")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(verb, "EHLO"):
			if s.offerTLS {
				_ = tp.PrintfLine("250-127.0.0.1")
				_ = tp.PrintfLine("250-STARTTLS")
			} else {
				_ = tp.PrintfLine("250-127.0.0.1")
			}
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case strings.HasPrefix(verb, "AUTH PLAIN"):
			fields := strings.Fields(line)
			decoded, _ := base64.StdEncoding.DecodeString(fields[len(fields)-1])
			parts := strings.Split(string(decoded), "\x00")
			if len(parts) == 3 && parts[2] == s.password {
				s.mu.Lock()
				s.authUser = parts[1]
				s.mu.Unlock()
				_ = tp.PrintfLine("235 2.7.0 Authentication successful")
			} else {
				_ = tp.PrintfLine("535 5.7.8 Username and Password not accepted")
			}
		case line == "*":
			_ = tp.PrintfLine("501 5.0.0 Auth cancelled")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			s.mu.Lock()
			s.from = extractAddr(line)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.0 OK")
		case strings.HasPrefix(verb, "RCPT TO:"):
			addr := extractAddr(line)
			if addr == s.rejectRcpt {
				_ = tp.PrintfLine("550 5.1.1 No such user")
				continue
			}
			s.mu.Lock()
			s.rcpts = append(s.rcpts, addr)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.5 OK")
		case verb == "DATA":
			_ = tp.PrintfLine("354 Go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = string(data)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 Queued")
		case verb == "RSET", verb == "NOOP":
			_ = tp.PrintfLine("250 OK")
		case verb == "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.1 Unrecognized command")
		}
	}
}

func extractAddr(line string) string {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return ""
	}
	return line[start+1 : end]
}
