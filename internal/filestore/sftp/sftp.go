package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"catalogsync/internal"
	"catalogsync/internal/config"
	"catalogsync/internal/filestore"
)

type Store struct {
	conn   *ssh.Client
	client *sftp.Client
	root   string
}

func NewStore(cfg config.Config, root string) (*Store, error) {
	if err := cfg.RequireAll(
		"FTP_HOST", cfg.FTPHost,
		"FTP_USER", cfg.FTPUser,
		"FTP_PASS", cfg.FTPPass,
	); err != nil {
		return nil, err
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if cfg.FTPHostKey != "" {
		pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.FTPHostKey))
		if err != nil {
			return nil, fmt.Errorf("parse FTP_HOST_KEY: %w", err)
		}
		hostKey = ssh.FixedHostKey(pub)
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.FTPUser,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.FTPPass)},
		HostKeyCallback: hostKey,
		Timeout:         cfg.FTPTimeout(),
	}

	addr := net.JoinHostPort(cfg.FTPHost, strconv.Itoa(cfg.FTPPort))
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("dial sftp %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open sftp session: %w", err)
	}

	return &Store{conn: conn, client: client, root: path.Clean("/" + root)}, nil
}

func (s *Store) List(ctx context.Context) ([]internal.RemoteFile, error) {
	var out []internal.RemoteFile
	walker := s.client.Walk(s.root)
	for walker.Step() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := walker.Err(); err != nil {
			return nil, fmt.Errorf("list %s: %w", walker.Path(), err)
		}
		rel := filestore.Rel(s.root, walker.Path())
		if rel == "" {
			continue
		}
		info := walker.Stat()
		entry := internal.RemoteFile{Path: rel, Type: internal.EntryFile, Size: info.Size()}
		if info.IsDir() {
			entry.Type = internal.EntryDir
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.client.Open(s.abs(name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Remove(s.abs(name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) Move(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.abs(to)
	if err := s.client.MkdirAll(path.Dir(target)); err != nil {
		return fmt.Errorf("create %s: %w", path.Dir(to), err)
	}
	if err := s.client.Rename(s.abs(from), target); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	return nil
}

func (s *Store) Close() error {
	err := s.client.Close()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Store) abs(name string) string {
	return path.Join(s.root, path.Clean("/"+name))
}
