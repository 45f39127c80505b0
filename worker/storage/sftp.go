package storage

import (
	"fmt"
	"io"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// sftpFS adapts *sftp.Client to the remoteFS interface.
type sftpFS struct {
	client *sftp.Client
}

func (f sftpFS) MkdirAll(path string) error { return f.client.MkdirAll(path) }

func (f sftpFS) Create(path string) (io.WriteCloser, error) { return f.client.Create(path) }

func (f sftpFS) Open(path string) (io.ReadCloser, error) { return f.client.Open(path) }

// ConnectSFTP dials the storage host and returns a store rooted at root,
// together with a close function for both underlying connections.
func ConnectSFTP(addr, user, password, root string, logger *zap.Logger) (*Store, func() error, error) {
	sshConfig := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("dial storage host %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open sftp session: %w", err)
	}

	closeAll := func() error {
		clientErr := client.Close()
		connErr := conn.Close()
		if clientErr != nil {
			return clientErr
		}
		return connErr
	}
	return NewStore(sftpFS{client: client}, root, logger), closeAll, nil
}
