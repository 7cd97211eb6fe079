package main

import (
	"context"

	"github.com/desertthunder/readtrack/internal/server"
	"github.com/urfave/cli/v3"
)

// DevStub serves the in-memory backend until interrupted.
func (r *Runner) DevStub(ctx context.Context, cmd *cli.Command) error {
	cfg := r.cfg()
	addr := cmd.String("addr")
	if addr == "" {
		addr = cfg.Stub.Addr
	}

	stub := server.New(server.Options{Secret: cfg.Stub.Secret, Logger: r.logger})
	r.writePlain("Stub backend on http://%s/api (ctrl+c to stop)\n", addr)
	return stub.ListenAndServe(ctx, addr)
}
