package ftp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ftplib "github.com/jlaffaye/ftp"

	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// conn is the subset of *ftplib.ServerConn used by the client
type conn interface {
	Login(user, password string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// DialFunc opens a control connection to addr
type DialFunc func(ctx context.Context, addr string, cfg config.FTPConfig) (conn, error)

// Client uploads finished dump files to a remote FTP server
type Client struct {
	cfg  config.FTPConfig
	dial DialFunc
}

// NewClient creates a new FTP upload client
func NewClient(cfg config.FTPConfig) *Client {
	return &Client{
		cfg:  cfg,
		dial: dialServer,
	}
}

func dialServer(ctx context.Context, addr string, cfg config.FTPConfig) (conn, error) {
	opts := []ftplib.DialOption{ftplib.DialWithContext(ctx)}
	if cfg.Timeout > 0 {
		opts = append(opts, ftplib.DialWithTimeout(cfg.Timeout))
	}
	return ftplib.Dial(addr, opts...)
}

// RemotePath joins the remote directory and file name with exactly one separator
func RemotePath(dir, base string) string {
	return strings.TrimRight(dir, "/") + "/" + base
}

// Upload stores localPath on the server under the configured directory. When any
// of host, user or password is missing it reports Skipped without connecting.
func (c *Client) Upload(ctx context.Context, localPath string) (domain.UploadOutcome, error) {
	if !c.cfg.Configured() {
		log.Printf("[DEBUG] FTP client - credentials incomplete, skipping upload of %s", localPath)
		return domain.UploadOutcome{Skipped: true}, nil
	}

	remotePath := RemotePath(c.cfg.Path, filepath.Base(localPath))

	file, err := os.Open(localPath)
	if err != nil {
		return domain.UploadOutcome{}, fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer file.Close()

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	log.Printf("[DEBUG] FTP client - connecting to %s", addr)

	server, err := c.dial(ctx, addr, c.cfg)
	if err != nil {
		return domain.UploadOutcome{}, fmt.Errorf("failed to connect to FTP server %s: %w", addr, err)
	}
	defer func() {
		if err := server.Quit(); err != nil {
			log.Printf("[DEBUG] FTP client - quit failed: %v", err)
		}
	}()

	if err := server.Login(c.cfg.User, c.cfg.Password); err != nil {
		return domain.UploadOutcome{}, fmt.Errorf("FTP login failed: %w", err)
	}

	if err := server.Stor(remotePath, file); err != nil {
		return domain.UploadOutcome{}, fmt.Errorf("failed to store %s: %w", remotePath, err)
	}

	log.Printf("[DEBUG] FTP client - uploaded %s to %s", localPath, remotePath)
	return domain.UploadOutcome{RemotePath: remotePath}, nil
}
