package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

const usage = `usage: vault-sync-client [flags] <command> [args]

commands:
  version              print the server version
  register             create the account given by -login/-password
  sync [file|-]        submit a sync request (JSON); no file asks for a full snapshot
  history [limit]      list the latest sync attempts
  watch                pull server changes every -interval until interrupted`

type App struct {
	server adapter.ServerAdapter
	syncer adapter.SyncAdapter
	cfg    *config.ClientConfig

	in  io.Reader
	out io.Writer

	logger *logger.Logger
}

// NewApp creates the client. syncer carries sync and history calls; pass nil
// to send them through server.
func NewApp(server adapter.ServerAdapter, syncer adapter.SyncAdapter, cfg *config.ClientConfig, in io.Reader, out io.Writer, logger *logger.Logger) *App {
	if syncer == nil {
		syncer = server
	}
	return &App{
		server: server,
		syncer: syncer,
		cfg:    cfg,
		in:     in,
		out:    out,
		logger: logger,
	}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w\n%s", ErrUnknownCommand, usage)
	}

	command, rest := args[0], args[1:]
	a.logger.Debug().Str("command", command).Strs("args", rest).Msg("running command")

	switch command {
	case "version":
		return a.version(ctx)
	case "register":
		return a.register(ctx)
	case "sync":
		return a.sync(ctx, rest)
	case "history":
		return a.history(ctx, rest)
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("%w %q\n%s", ErrUnknownCommand, command, usage)
	}
}

func (a *App) version(ctx context.Context) error {
	v, err := a.server.Version(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, v)
	return err
}

func (a *App) register(ctx context.Context) error {
	user, err := a.credentials()
	if err != nil {
		return err
	}
	if err = a.server.Register(ctx, user); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	_, err = fmt.Fprintf(a.out, "registered %s\n", user.Login)
	return err
}

func (a *App) sync(ctx context.Context, args []string) error {
	req, err := a.readSyncRequest(args)
	if err != nil {
		return err
	}
	if err = a.login(ctx); err != nil {
		return err
	}

	resp, err := a.syncer.Synchronize(ctx, req)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = a.print(resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrSyncFailed, errorMessage(resp))
	}
	return nil
}

func (a *App) history(ctx context.Context, args []string) error {
	limit := 0
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid history limit %q", args[0])
		}
		limit = parsed
	}
	if err := a.login(ctx); err != nil {
		return err
	}

	entries, err := a.syncer.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return a.print(entries)
}

func (a *App) watch(ctx context.Context) error {
	if err := a.login(ctx); err != nil {
		return err
	}

	job := newPullJob(a.syncer, a.login, a.out, a.logger)
	return job.Run(ctx, a.cfg.SyncInterval)
}

func (a *App) login(ctx context.Context) error {
	user, err := a.credentials()
	if err != nil {
		return err
	}
	if err = a.server.Login(ctx, user); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func (a *App) credentials() (models.User, error) {
	if a.cfg.Login == "" || a.cfg.Password == "" {
		return models.User{}, ErrMissingCredentials
	}
	return models.User{Login: a.cfg.Login, Password: a.cfg.Password}, nil
}

// readSyncRequest decodes the request from the named file, or from the
// input stream for "-". Without arguments it returns the empty request,
// which asks the server for a full snapshot.
func (a *App) readSyncRequest(args []string) (models.SyncRequest, error) {
	var req models.SyncRequest
	if len(args) == 0 {
		return req, nil
	}

	var r io.Reader
	if args[0] == "-" {
		r = a.in
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return req, fmt.Errorf("open sync request: %w", err)
		}
		defer f.Close()
		r = f
	}

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, fmt.Errorf("decode sync request: %w", err)
	}
	return req, nil
}

func (a *App) print(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func errorMessage(resp models.SyncResponse) string {
	if resp.ErrorMessage == nil {
		return "no reason given"
	}
	return *resp.ErrorMessage
}
