// Package composer builds and submits transactions through the composer CLI.
package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/zoro11031/beef-tracer/create-animals/internal/system"
)

const (
	// DefaultSubmitCommand is the composer invocation that submits one transaction.
	DefaultSubmitCommand = "composer transaction submit"

	// DefaultCard is the business network card used for submissions.
	DefaultCard = "admin@beef-tracer"
)

// Transaction is a single composer submission.
type Transaction struct {
	argv []string
}

// Client submits transactions with a fixed command prefix and card.
type Client struct {
	prefix []string
	card   string
	runner system.CommandRunner
}

// NewClient parses submitCommand into argv words and returns a Client that
// executes through runner.
func NewClient(runner system.CommandRunner, submitCommand, card string) (*Client, error) {
	if strings.TrimSpace(submitCommand) == "" {
		submitCommand = DefaultSubmitCommand
	}
	prefix, err := shellquote.Split(submitCommand)
	if err != nil {
		return nil, fmt.Errorf("failed to parse submit command %q: %w", submitCommand, err)
	}
	if len(prefix) == 0 {
		return nil, fmt.Errorf("submit command is empty")
	}
	if strings.TrimSpace(card) == "" {
		card = DefaultCard
	}

	return &Client{
		prefix: prefix,
		card:   card,
		runner: runner,
	}, nil
}

// Binary returns the executable the client invokes.
func (c *Client) Binary() string {
	return c.prefix[0]
}

// Card returns the business network card.
func (c *Client) Card() string {
	return c.card
}

// Transaction builds the submission for a JSON payload.
func (c *Client) Transaction(payload string) Transaction {
	argv := make([]string, 0, len(c.prefix)+4)
	argv = append(argv, c.prefix...)
	argv = append(argv, "--card", c.card, "--data", payload)
	return Transaction{argv: argv}
}

// Submit runs the transaction and returns the process result.
func (c *Client) Submit(ctx context.Context, tx Transaction) (system.Result, error) {
	return c.runner.Run(ctx, tx.argv[0], tx.argv[1:]...)
}

// Args returns a copy of the full argv.
func (t Transaction) Args() []string {
	out := make([]string, len(t.argv))
	copy(out, t.argv)
	return out
}

// String renders the transaction as a shell command line.
func (t Transaction) String() string {
	return shellquote.Join(t.argv...)
}
