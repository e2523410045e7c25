package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pickem/application"
	"pickem/domain/entities"

	log "github.com/sirupsen/logrus"
)

// Request subjects served by the engine
const (
	SubjectCreateSlip     = "pickem.rpc.slips.create"
	SubjectGetSlip        = "pickem.rpc.slips.get"
	SubjectListSlips      = "pickem.rpc.slips.list"
	SubjectUpdateSlip     = "pickem.rpc.slips.update"
	SubjectLockSlip       = "pickem.rpc.slips.lock"
	SubjectDeleteSlip     = "pickem.rpc.slips.delete"
	SubjectValidatePicks  = "pickem.rpc.picks.validate"
	SubjectCheckAllowance = "pickem.rpc.allowance.check"
	SubjectClaimAllowance = "pickem.rpc.allowance.claim"
	SubjectGetWallet      = "pickem.rpc.wallets.get"
)

// CommandHandler decodes a request payload and returns the reply body
type CommandHandler func(ctx context.Context, data []byte) (any, error)

// CommandConsumer exposes engine operations over NATS request-reply. Each
// subject carries a JSON request and gets a JSON envelope back; domain errors
// are mapped to stable codes instead of leaking Go error chains to callers.
type CommandConsumer struct {
	natsClient *NATSClient
	engine     *application.Engine
	handlers   map[string]CommandHandler
}

// NewCommandConsumer creates a consumer with all engine handlers registered
func NewCommandConsumer(natsClient *NATSClient, engine *application.Engine) *CommandConsumer {
	cc := &CommandConsumer{
		natsClient: natsClient,
		engine:     engine,
		handlers:   make(map[string]CommandHandler),
	}

	cc.handlers[SubjectCreateSlip] = cc.handleCreateSlip
	cc.handlers[SubjectGetSlip] = cc.handleGetSlip
	cc.handlers[SubjectListSlips] = cc.handleListSlips
	cc.handlers[SubjectUpdateSlip] = cc.handleUpdateSlip
	cc.handlers[SubjectLockSlip] = cc.handleLockSlip
	cc.handlers[SubjectDeleteSlip] = cc.handleDeleteSlip
	cc.handlers[SubjectValidatePicks] = cc.handleValidatePicks
	cc.handlers[SubjectCheckAllowance] = cc.handleCheckAllowance
	cc.handlers[SubjectClaimAllowance] = cc.handleClaimAllowance
	cc.handlers[SubjectGetWallet] = cc.handleGetWallet

	return cc
}

// Start subscribes every registered subject on the shared queue group
func (cc *CommandConsumer) Start(ctx context.Context) error {
	for subject, handler := range cc.handlers {
		err := cc.natsClient.SubscribeRequest(subject, func(data []byte) []byte {
			return cc.dispatch(ctx, subject, handler, data)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	log.WithField("subjects", len(cc.handlers)).Info("Command consumer started")
	return nil
}

type commandReply struct {
	OK    bool            `json:"ok"`
	Error *commandError   `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type commandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// dispatch runs a handler and wraps its result in the reply envelope
func (cc *CommandConsumer) dispatch(ctx context.Context, subject string, handler CommandHandler, data []byte) []byte {
	result, err := handler(ctx, data)
	if err != nil {
		code := errorCode(err)
		if code == "internal" {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Command failed")
		}
		return encodeReply(&commandReply{
			OK:    false,
			Error: &commandError{Code: code, Message: err.Error()},
		})
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.WithFields(log.Fields{
			"subject": subject,
			"error":   err,
		}).Error("Failed to encode reply")
		return encodeReply(&commandReply{
			OK:    false,
			Error: &commandError{Code: "internal", Message: "failed to encode reply"},
		})
	}

	return encodeReply(&commandReply{OK: true, Data: body})
}

func encodeReply(reply *commandReply) []byte {
	data, err := json.Marshal(reply)
	if err != nil {
		// The envelope only holds strings and raw JSON; this cannot fail
		log.WithError(err).Error("Failed to encode reply envelope")
		return []byte(`{"ok":false,"error":{"code":"internal","message":"encoding failure"}}`)
	}
	return data
}

// errorCode maps domain errors to stable wire codes
func errorCode(err error) string {
	var ve *entities.ValidationError
	var br *entities.BadRequestError
	switch {
	case errors.As(err, &ve):
		return "invalid_argument"
	case entities.IsNotFound(err):
		return "not_found"
	case entities.IsTierLocked(err):
		return "tier_locked"
	case entities.IsConflict(err):
		return "conflict"
	case errors.As(err, &br):
		return "bad_request"
	default:
		return "internal"
	}
}

type createSlipRequest struct {
	UserID int64                `json:"user_id"`
	Name   string               `json:"name"`
	Picks  []entities.PickInput `json:"picks"`
	Stake  int64                `json:"stake"`
}

func (cc *CommandConsumer) handleCreateSlip(ctx context.Context, data []byte) (any, error) {
	var req createSlipRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.CreateSlip(ctx, req.UserID, req.Name, req.Picks, req.Stake)
}

type slipRequest struct {
	SlipID int64 `json:"slip_id"`
	UserID int64 `json:"user_id"`
}

func (cc *CommandConsumer) handleGetSlip(ctx context.Context, data []byte) (any, error) {
	var req slipRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.GetSlipByID(ctx, req.SlipID, req.UserID)
}

type listSlipsRequest struct {
	UserID   int64   `json:"user_id"`
	Status   *string `json:"status,omitempty"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	SortBy   string  `json:"sort_by"`
}

type listSlipsReply struct {
	Slips []*entities.Slip `json:"slips"`
	Total int64            `json:"total"`
}

func (cc *CommandConsumer) handleListSlips(ctx context.Context, data []byte) (any, error) {
	var req listSlipsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}

	q := entities.SlipListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		SortBy:   req.SortBy,
	}
	if req.Status != nil {
		status := entities.SlipStatus(*req.Status)
		if !status.IsValid() {
			return nil, entities.NewValidationError("status", fmt.Sprintf("unknown slip status %q", *req.Status))
		}
		q.Status = &status
	}

	slips, total, err := cc.engine.GetUserSlips(ctx, req.UserID, q)
	if err != nil {
		return nil, err
	}
	return &listSlipsReply{Slips: slips, Total: total}, nil
}

type updateSlipRequest struct {
	SlipID        int64                `json:"slip_id"`
	UserID        int64                `json:"user_id"`
	AddPicks      []entities.PickInput `json:"add_picks,omitempty"`
	RemovePickIDs []int64              `json:"remove_pick_ids,omitempty"`
	Stake         *int64               `json:"stake,omitempty"`
	Name          *string              `json:"name,omitempty"`
}

func (cc *CommandConsumer) handleUpdateSlip(ctx context.Context, data []byte) (any, error) {
	var req updateSlipRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	update := entities.SlipUpdate{
		AddPicks:      req.AddPicks,
		RemovePickIDs: req.RemovePickIDs,
		Stake:         req.Stake,
		Name:          req.Name,
	}
	return cc.engine.UpdateSlip(ctx, req.SlipID, req.UserID, update)
}

func (cc *CommandConsumer) handleLockSlip(ctx context.Context, data []byte) (any, error) {
	var req slipRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.LockSlip(ctx, req.SlipID, req.UserID)
}

func (cc *CommandConsumer) handleDeleteSlip(ctx context.Context, data []byte) (any, error) {
	var req slipRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	if err := cc.engine.DeleteSlip(ctx, req.SlipID, req.UserID); err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}

type validatePicksRequest struct {
	Picks []entities.PickInput `json:"picks"`
}

func (cc *CommandConsumer) handleValidatePicks(ctx context.Context, data []byte) (any, error) {
	var req validatePicksRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.ValidateDraftPicks(ctx, req.Picks)
}

type allowanceRequest struct {
	UserID int64 `json:"user_id"`
	DryRun bool  `json:"dry_run"`
}

func (cc *CommandConsumer) handleCheckAllowance(ctx context.Context, data []byte) (any, error) {
	var req allowanceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.CheckAllowanceEligibility(ctx, req.UserID)
}

func (cc *CommandConsumer) handleClaimAllowance(ctx context.Context, data []byte) (any, error) {
	var req allowanceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	return cc.engine.CreditAllowance(ctx, req.UserID, req.DryRun)
}

type walletRequest struct {
	UserID       int64 `json:"user_id"`
	HistoryLimit int   `json:"history_limit"`
}

type walletReply struct {
	Wallet  *entities.Wallet        `json:"wallet"`
	History []*entities.Transaction `json:"history"`
}

func (cc *CommandConsumer) handleGetWallet(ctx context.Context, data []byte) (any, error) {
	var req walletRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, entities.NewValidationError("request", "malformed JSON")
	}
	wallet, history, err := cc.engine.GetWallet(ctx, req.UserID, req.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return &walletReply{Wallet: wallet, History: history}, nil
}
