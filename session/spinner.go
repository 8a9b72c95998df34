package session

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/parse"
	"github.com/teranos/efmig/workflow"
)

// spinningGateway shows a spinner while each tool call runs. Prompts happen
// between calls, so they never overlap the spinner.
type spinningGateway struct {
	next workflow.Gateway
}

// WithSpinner decorates gateway with a terminal spinner.
// Non-interactive output gets the gateway unchanged.
func WithSpinner(gateway workflow.Gateway, interactive bool) workflow.Gateway {
	if !interactive {
		return gateway
	}
	return &spinningGateway{next: gateway}
}

func (g *spinningGateway) spin(text string, call func() (parse.Result, error)) (parse.Result, error) {
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	res, callErr := call()
	if err == nil {
		_ = spinner.Stop()
	}
	return res, callErr
}

func (g *spinningGateway) List(ctx context.Context, p config.Projects) (parse.Result, error) {
	return g.spin("Listing migrations...", func() (parse.Result, error) {
		return g.next.List(ctx, p)
	})
}

func (g *spinningGateway) Add(ctx context.Context, p config.Projects, name, outputDir string) (parse.Result, error) {
	return g.spin("Adding migration "+name+"...", func() (parse.Result, error) {
		return g.next.Add(ctx, p, name, outputDir)
	})
}

func (g *spinningGateway) Update(ctx context.Context, p config.Projects, target string) (parse.Result, error) {
	text := "Updating database..."
	if target != "" {
		text = "Updating database to " + target + "..."
	}
	return g.spin(text, func() (parse.Result, error) {
		return g.next.Update(ctx, p, target)
	})
}

func (g *spinningGateway) Remove(ctx context.Context, p config.Projects) (parse.Result, error) {
	return g.spin("Removing migration...", func() (parse.Result, error) {
		return g.next.Remove(ctx, p)
	})
}
