// Package service executes CLI commands against the process mirror.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"txmirror/internal/classify"
	"txmirror/internal/domain"
	"txmirror/internal/inbox"
	"txmirror/internal/metrics"
	"txmirror/internal/parser"
	"txmirror/internal/process"
	"txmirror/internal/store"
)

// Options configures a Processor.
type Options struct {
	// DefaultProcess governs transactions recorded without a process argument.
	DefaultProcess domain.ProcessAlias
	Logger         *slog.Logger
	Metrics        metrics.Metrics
}

// Processor handles command execution.
type Processor struct {
	store          store.Repository
	registry       *process.Registry
	defaultProcess *process.Process
	classifiers    map[domain.ProcessAlias]*classify.Classifier
	inbox          *inbox.Filter
	metrics        metrics.Metrics
	logger         *slog.Logger
}

// NewProcessor creates a new command processor.
func NewProcessor(repo store.Repository, registry *process.Registry, opts Options) (*Processor, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopMetrics{}
	}

	def, err := registry.Lookup(opts.DefaultProcess)
	if err != nil {
		return nil, fmt.Errorf("default process: %w", err)
	}

	classifiers := make(map[domain.ProcessAlias]*classify.Classifier)
	for _, alias := range registry.Aliases() {
		p, _ := registry.Lookup(alias)
		classifiers[alias] = classify.New(p, opts.Logger, opts.Metrics)
	}

	return &Processor{
		store:          repo,
		registry:       registry,
		defaultProcess: def,
		classifiers:    classifiers,
		inbox:          inbox.New(registry),
		metrics:        opts.Metrics,
		logger:         opts.Logger,
	}, nil
}

// Execute processes a parsed command and returns the result.
func (p *Processor) Execute(cmd *parser.Command) (string, error) {
	switch cmd.Name {
	case parser.CmdRecord:
		return p.handleRecord(cmd)
	case parser.CmdStatus:
		return p.handleStatus(cmd)
	case parser.CmdCan:
		return p.handleCan(cmd)
	case parser.CmdNext:
		return p.handleNext(cmd)
	case parser.CmdHistory:
		return p.handleHistory(cmd)
	case parser.CmdClassify:
		return p.handleClassify(cmd)
	case parser.CmdInbox:
		return p.handleInbox(cmd)
	case parser.CmdList:
		return p.handleList()
	case parser.CmdGraph:
		return p.handleGraph(cmd)
	case parser.CmdExit:
		// This should be handled by the runner, not here
		return "", nil
	default:
		return "", fmt.Errorf("unknown command: %s", cmd.Name)
	}
}

// resolve returns the process named by arg, or the default one.
func (p *Processor) resolve(arg string) (*process.Process, error) {
	if arg == "" {
		return p.defaultProcess, nil
	}
	return p.registry.Resolve(arg)
}

func (p *Processor) classifier(proc *process.Process) *classify.Classifier {
	return p.classifiers[proc.Alias()]
}

// load returns a stored transaction with its process and current state.
func (p *Processor) load(id string) (*domain.Transaction, *process.Process, domain.State, error) {
	tx, err := p.store.Get(id)
	if err != nil {
		return nil, nil, "", fmt.Errorf("transaction %s not found", id)
	}
	proc, err := p.registry.Lookup(tx.Process)
	if err != nil {
		return nil, nil, "", err
	}
	state, err := proc.DeriveState(tx.LastTransition)
	if err != nil {
		return nil, nil, "", err
	}
	return tx, proc, state, nil
}

// reportInvalid counts and logs a transition that is not legal from the
// current state. It passes every error through unchanged.
func (p *Processor) reportInvalid(proc *process.Process, txID string, err error) error {
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		p.metrics.InvalidTransition(string(proc.Alias()), string(invalid.State), string(invalid.Transition))
		p.logger.Info("invalid transition",
			"tx", txID,
			"process", string(proc.Alias()),
			"state", string(invalid.State),
			"transition", string(invalid.Transition))
	}
	return err
}

// handleRecord applies a transition reported by the marketplace API.
// The transaction is created on its first transition.
func (p *Processor) handleRecord(cmd *parser.Command) (string, error) {
	id := cmd.Arg(0)
	transition := domain.NormalizeTransition(cmd.Arg(1))

	tx, err := p.store.Get(id)
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		proc, err := p.resolve(cmd.Arg(2))
		if err != nil {
			return "", err
		}
		tx = domain.NewTransaction(id, proc.Alias())
	case err != nil:
		return "", fmt.Errorf("failed to load transaction %s: %w", id, err)
	case cmd.Arg(2) != "":
		proc, err := p.registry.Resolve(cmd.Arg(2))
		if err != nil {
			return "", err
		}
		if proc.Alias() != tx.Process {
			return "", domain.NewValidationError("process", fmt.Sprintf("transaction %s belongs to %s", id, tx.Process))
		}
	}

	proc, err := p.registry.Lookup(tx.Process)
	if err != nil {
		return "", err
	}
	if err := p.classifier(proc).Check(transition); err != nil {
		return "", err
	}

	from, err := proc.DeriveState(tx.LastTransition)
	if err != nil {
		return "", err
	}
	to, err := proc.NextState(from, transition)
	if err != nil {
		return "", p.reportInvalid(proc, id, err)
	}

	tx.Record(transition, from, to)
	if err := p.store.Save(tx); err != nil {
		return "", fmt.Errorf("failed to save transaction: %w", err)
	}
	p.metrics.TransitionRecorded(string(proc.Alias()), string(transition))
	p.logger.Debug("transition recorded", "tx", id, "transition", string(transition), "from", string(from), "to", string(to))

	return fmt.Sprintf("Transaction %s %s: %s -> %s", id, transition, from, to), nil
}

// handleStatus reports the derived state and the classification of the last transition.
func (p *Processor) handleStatus(cmd *parser.Command) (string, error) {
	tx, proc, state, err := p.load(cmd.Arg(0))
	if err != nil {
		return "", err
	}

	completed, refunded := false, false
	if !tx.IsNew() {
		c := p.classifier(proc)
		completed = c.IsCompleted(tx.LastTransition)
		refunded = c.IsRefunded(tx.LastTransition)
	}

	return fmt.Sprintf("Transaction %s: process=%s state=%s last=%s completed=%t refunded=%t attention=%t",
		tx.ID, tx.Process, state, lastOrNone(tx), completed, refunded, proc.NeedsProviderAttention(state)), nil
}

// handleCan pre-validates a transition request without applying it.
func (p *Processor) handleCan(cmd *parser.Command) (string, error) {
	id := cmd.Arg(0)
	transition := domain.NormalizeTransition(cmd.Arg(1))

	_, proc, state, err := p.load(id)
	if err != nil {
		return "", err
	}
	c := p.classifier(proc)
	if err := c.Check(transition); err != nil {
		return "", err
	}
	if _, err := proc.NextState(state, transition); err != nil {
		return "", p.reportInvalid(proc, id, err)
	}
	route, err := c.Route(transition)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Transition %s allowed for %s from %s (route=%s)", transition, id, state, route), nil
}

// handleNext lists the transitions available from the current state.
func (p *Processor) handleNext(cmd *parser.Command) (string, error) {
	tx, proc, state, err := p.load(cmd.Arg(0))
	if err != nil {
		return "", err
	}

	available := proc.Available(state)
	if len(available) == 0 {
		return fmt.Sprintf("Transaction %s in state %s: no transitions available", tx.ID, state), nil
	}
	names := make([]string, 0, len(available))
	for _, t := range available {
		names = append(names, string(t))
	}
	return fmt.Sprintf("Transaction %s in state %s: %s", tx.ID, state, strings.Join(names, ", ")), nil
}

// handleHistory prints the activity feed of a transaction.
func (p *Processor) handleHistory(cmd *parser.Command) (string, error) {
	tx, proc, _, err := p.load(cmd.Arg(0))
	if err != nil {
		return "", err
	}

	entries := p.classifier(proc).RelevantHistory(tx)
	if len(entries) == 0 {
		return fmt.Sprintf("No relevant history for %s", tx.ID), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "History %s:\n", tx.ID)
	for _, h := range entries {
		fmt.Fprintf(&sb, "  %s %s -> %s\n", h.Transition, h.From, h.To)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// handleClassify prints every predicate for a transition.
func (p *Processor) handleClassify(cmd *parser.Command) (string, error) {
	proc, err := p.resolve(cmd.Arg(1))
	if err != nil {
		return "", err
	}

	c, err := p.classifier(proc).Classify(domain.NormalizeTransition(cmd.Arg(0)))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: state=%s relevant=%t customer_review=%t provider_review=%t privileged=%t completed=%t refunded=%t attention=%t",
		c.Transition, c.State, c.Relevant, c.CustomerReview, c.ProviderReview, c.Privileged, c.Completed, c.Refunded, c.NeedsProviderAttention), nil
}

// handleInbox lists the transactions shown under an inbox tab.
func (p *Processor) handleInbox(cmd *parser.Command) (string, error) {
	status := cmd.Arg(0)
	q, err := p.inbox.Query(status)
	if err != nil {
		return "", err
	}

	txs, err := p.store.List()
	if err != nil {
		return "", fmt.Errorf("failed to list transactions: %w", err)
	}

	matched := p.inbox.Select(q, txs)
	if len(matched) == 0 {
		return fmt.Sprintf("Inbox %s: empty", status), nil
	}
	ids := make([]string, 0, len(matched))
	for _, tx := range matched {
		ids = append(ids, tx.ID)
	}
	return fmt.Sprintf("Inbox %s: %s", status, strings.Join(ids, ", ")), nil
}

// handleList lists every transaction with its derived state.
func (p *Processor) handleList() (string, error) {
	txs, err := p.store.List()
	if err != nil {
		return "", fmt.Errorf("failed to list transactions: %w", err)
	}
	if len(txs) == 0 {
		return "No transactions found", nil
	}

	var sb strings.Builder
	sb.WriteString("Transactions:\n")
	for _, tx := range txs {
		state := domain.State("?")
		if proc, err := p.registry.Lookup(tx.Process); err == nil {
			if s, err := proc.DeriveState(tx.LastTransition); err == nil {
				state = s
			}
		}
		fmt.Fprintf(&sb, "  %s: process=%s state=%s last=%s\n", tx.ID, tx.Process, state, lastOrNone(tx))
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// handleGraph exports a process graph as XState JSON.
func (p *Processor) handleGraph(cmd *parser.Command) (string, error) {
	proc, err := p.resolve(cmd.Arg(0))
	if err != nil {
		return "", err
	}
	return proc.XStateJSON()
}

func lastOrNone(tx *domain.Transaction) string {
	if tx.IsNew() {
		return "none"
	}
	return string(tx.LastTransition)
}
