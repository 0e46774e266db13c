// Package batch builds, sends and undoes tag batches against the configured
// HTTP endpoint. One apply or undo may be in flight at a time; overlapping
// calls are no-ops. A single-level undo of the last successful batch is
// supported, keyed by a batch id persisted through an IDStore so it survives
// restarts.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"chapterops/internal/notify"
	"chapterops/internal/scope"

	"github.com/rs/zerolog/log"
)

// Action is the direction of a tag batch.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

const (
	// DefaultTimeout bounds one HTTP exchange.
	DefaultTimeout = 20 * time.Second
	// DefaultMaxScope caps how many users one batch may touch.
	DefaultMaxScope = 250
)

// Config is the operator-facing controller configuration.
type Config struct {
	EndpointURL string
	Timeout     time.Duration
	MaxScope    int
	Actor       string
}

// IDStore persists the last applied batch id across sessions. The empty
// string means no batch is recorded.
type IDStore interface {
	LastBatchID() (string, error)
	SetLastBatchID(id string) error
}

type applyRequest struct {
	BatchID string    `json:"batch_id"`
	Actor   string    `json:"actor"`
	Action  Action    `json:"action"`
	Tag     scope.Tag `json:"tag"`
	Users   []userRef `json:"users"`
}

type userRef struct {
	UserID string `json:"user_id"`
}

type undoRequest struct {
	UndoBatchID string `json:"undo_batch_id"`
	BatchID     string `json:"batch_id"`
	Actor       string `json:"actor"`
}

// Controller runs the single-request apply/undo lifecycle.
type Controller struct {
	cfg    Config
	client *http.Client
	ids    IDGenerator
	store  IDStore
	sink   notify.Sink

	busy        atomic.Bool
	lastBatchID string
}

// NewController wires a controller and restores the last batch id from the
// store. A store read failure only disables undo until the next apply.
func NewController(cfg Config, store IDStore, ids IDGenerator, sink notify.Sink) *Controller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxScope <= 0 {
		cfg.MaxScope = DefaultMaxScope
	}
	if cfg.Actor == "" {
		cfg.Actor = "unknown"
	}

	c := &Controller{
		cfg:    cfg,
		client: &http.Client{},
		ids:    ids,
		store:  store,
		sink:   sink,
	}

	last, err := store.LastBatchID()
	if err != nil {
		log.Warn().Err(err).Msg("Could not restore last batch id")
	} else {
		c.lastBatchID = last
	}
	return c
}

// LastBatchID returns the id of the last successfully applied batch, or ""
// when there is nothing to undo.
func (c *Controller) LastBatchID() string {
	return c.lastBatchID
}

// CanUndo reports whether a single-level undo is currently available.
func (c *Controller) CanUndo() bool {
	return c.lastBatchID != ""
}

// Busy reports whether an apply or undo is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Apply validates the preconditions in order (first failure wins, no side
// effects), then posts one batch adding or removing tag for every user in
// users. The last batch id is recorded and persisted only on confirmed
// success. A call while another apply/undo is in flight is a no-op.
func (c *Controller) Apply(ctx context.Context, users []scope.User, tag *scope.Tag, action Action) error {
	if c.busy.Load() {
		log.Debug().Msg("Apply ignored: controller busy")
		return nil
	}

	if strings.TrimSpace(c.cfg.EndpointURL) == "" {
		return c.report(&ConfigError{Reason: "missing endpoint"})
	}
	if tag == nil {
		return c.report(&ValidationError{Reason: "no tag selected"})
	}
	if len(users) == 0 {
		return c.report(&ValidationError{Reason: "empty scope"})
	}
	if len(users) > c.cfg.MaxScope {
		return c.report(&ValidationError{
			Reason: fmt.Sprintf("scope (%d) exceeds max scope (%d)", len(users), c.cfg.MaxScope),
		})
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer c.busy.Store(false)

	batchID := c.ids.NewID()
	body := applyRequest{
		BatchID: batchID,
		Actor:   c.cfg.Actor,
		Action:  action,
		Tag:     *tag,
		Users:   make([]userRef, len(users)),
	}
	for i, u := range users {
		body.Users[i] = userRef{UserID: u.UserID}
	}

	c.sink.Info("Applying…")
	if err := c.post(ctx, body); err != nil {
		return c.report(err)
	}

	c.lastBatchID = batchID
	if err := c.store.SetLastBatchID(batchID); err != nil {
		log.Warn().Err(err).Msg("Could not persist last batch id")
	}
	c.sink.Success(fmt.Sprintf("Applied batch %s… (%d users, %s %q).",
		shortID(batchID), len(users), action, tag.TagName))
	return nil
}

// Undo reverses the last applied batch. The undo is itself a batch with a
// fresh id, so it is auditable on the backend. On success the recorded id is
// cleared in memory and in the store; undo is single-level, not a stack.
func (c *Controller) Undo(ctx context.Context) error {
	if c.busy.Load() || c.lastBatchID == "" {
		log.Debug().Bool("busy", c.busy.Load()).Msg("Undo ignored")
		return nil
	}

	if strings.TrimSpace(c.cfg.EndpointURL) == "" {
		return c.report(&ConfigError{Reason: "missing endpoint"})
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer c.busy.Store(false)

	undoBatchID := c.lastBatchID
	body := undoRequest{
		UndoBatchID: undoBatchID,
		BatchID:     c.ids.NewID(),
		Actor:       c.cfg.Actor,
	}

	c.sink.Info("Undoing…")
	if err := c.post(ctx, body); err != nil {
		return c.report(err)
	}

	c.lastBatchID = ""
	if err := c.store.SetLastBatchID(""); err != nil {
		log.Warn().Err(err).Msg("Could not clear last batch id")
	}
	c.sink.Success(fmt.Sprintf("Undone batch %s….", shortID(undoBatchID)))
	return nil
}

func (c *Controller) post(ctx context.Context, body any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return &ConfigError{Reason: fmt.Sprintf("invalid endpoint: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("url", c.cfg.EndpointURL).Int("bytes", len(payload)).Msg("Posting batch")
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Status: resp.Status}
	}
	return nil
}

func (c *Controller) report(err error) error {
	c.sink.Error("Error: " + err.Error())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
