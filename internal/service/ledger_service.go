package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// LedgerService implements the Connect LedgerService: users, expenses,
// balances and settlement plans over a shared ledger.
type LedgerService struct {
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	planner   calculator.Planner
	validate  *validator.Validate
}

// NewLedgerService creates a LedgerService backed by store. A nil publisher
// disables change notifications.
func NewLedgerService(store storage.Store, publisher events.Publisher, m *metrics.Metrics) *LedgerService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		planner:   calculator.NewPlanner(),
		validate:  newValidator(),
	}
}

// CreateUser registers a new ledger member.
func (s *LedgerService) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	msg := *req.Msg
	msg.Name = strings.TrimSpace(msg.Name)
	if err := s.validate.Struct(msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, describeValidation(err))
	}

	user := &models.User{Name: msg.Name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, storeError("CreateUser", err)
	}

	slog.Info("User created", "user_id", user.ID, "name", user.Name)
	s.publish(ctx, events.UserCreated, user.ID)

	return connect.NewResponse(&CreateUserResponse{User: toUser(user)}), nil
}

// ListUsers returns all users ordered by name.
func (s *LedgerService) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError("ListUsers", err)
	}

	out := make([]User, len(users))
	for i, u := range users {
		out[i] = toUser(u)
	}
	return connect.NewResponse(&ListUsersResponse{Users: out}), nil
}

// CreateExpense records a shared expense. The payer and every participant
// must be existing users.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	msg := *req.Msg
	msg.Category = strings.TrimSpace(msg.Category)
	msg.Description = strings.TrimSpace(msg.Description)
	if err := s.validate.Struct(msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%w: %w", calculator.ErrInvalidRecord, describeValidation(err)))
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError("CreateExpense", err)
	}
	names := userNames(users)

	expense := &models.Expense{
		Date:         msg.Date,
		Category:     msg.Category,
		Description:  msg.Description,
		Amount:       msg.Amount,
		PayerID:      msg.PayerID,
		Participants: msg.ParticipantIDs,
		Status:       models.StatusUnsettled,
	}
	if err := toRecord(expense).Validate(knownUsers(users)); err != nil {
		slog.Warn("CreateExpense rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, storeError("CreateExpense", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"payer_id", expense.PayerID,
		"participants", len(expense.Participants),
	)
	s.publish(ctx, events.ExpenseCreated, expense.ID)

	out, err := toExpense(expense, names)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&CreateExpenseResponse{Expense: out}), nil
}

// ListExpenses returns expenses newest first, optionally only unsettled ones.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	snap, err := s.store.Snapshot(ctx, storage.ExpenseFilter{UnsettledOnly: req.Msg.UnsettledOnly})
	if err != nil {
		return nil, storeError("ListExpenses", err)
	}

	names := userNames(snap.Users)
	out := make([]Expense, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		expense, err := toExpense(e, names)
		if err != nil {
			slog.Error("ListExpenses: stored expense is invalid", "expense_id", e.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		out = append(out, expense)
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpenseStatus marks an expense settled or unsettled.
func (s *LedgerService) UpdateExpenseStatus(ctx context.Context, req *connect.Request[UpdateExpenseStatusRequest]) (*connect.Response[UpdateExpenseStatusResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, describeValidation(err))
	}

	status := models.ExpenseStatus(req.Msg.Status)
	if err := s.store.UpdateExpenseStatus(ctx, req.Msg.ExpenseID, status); err != nil {
		return nil, storeError("UpdateExpenseStatus", err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, storeError("UpdateExpenseStatus", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError("UpdateExpenseStatus", err)
	}

	slog.Info("Expense status changed", "expense_id", expense.ID, "status", expense.Status)
	s.publish(ctx, events.ExpenseStatusChanged, expense.ID)

	out, err := toExpense(expense, userNames(users))
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&UpdateExpenseStatusResponse{Expense: out}), nil
}

// GetUserSummary returns what one user paid, owes, and their net balance.
func (s *LedgerService) GetUserSummary(ctx context.Context, req *connect.Request[GetUserSummaryRequest]) (*connect.Response[GetUserSummaryResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, describeValidation(err))
	}

	balances, err := s.balances(ctx, req.Msg.UnsettledOnly)
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		if b.UserID == req.Msg.UserID {
			return connect.NewResponse(&GetUserSummaryResponse{Summary: b}), nil
		}
	}
	return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("user %s: %w", req.Msg.UserID, storage.ErrNotFound))
}

// GetBalances returns the balance of every user, ordered by name.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	balances, err := s.balances(ctx, req.Msg.UnsettledOnly)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetBalancesResponse{Balances: balances}), nil
}

// GetSettlementPlan computes the transfers that clear every unsettled balance.
func (s *LedgerService) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	snap, err := s.store.Snapshot(ctx, storage.ExpenseFilter{UnsettledOnly: true})
	if err != nil {
		return nil, storeError("GetSettlementPlan", err)
	}

	computed, err := aggregate(snap)
	if err != nil {
		slog.Error("GetSettlementPlan: aggregation failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	transfers, err := s.planner.Plan(computed)
	if err != nil {
		return nil, s.planError(err)
	}
	if s.metrics != nil {
		s.metrics.PlanTransfers.Observe(float64(len(transfers)))
	}

	names := userNames(snap.Users)
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = Transfer{
			FromUserID: t.From,
			FromName:   names[t.From],
			ToUserID:   t.To,
			ToName:     names[t.To],
			Amount:     t.Amount,
		}
	}

	slog.Debug("Settlement plan computed", "expenses", len(snap.Expenses), "transfers", len(out))
	return connect.NewResponse(&GetSettlementPlanResponse{
		Balances:  toBalances(computed, names),
		Transfers: out,
	}), nil
}

// balances aggregates a consistent snapshot of the ledger.
func (s *LedgerService) balances(ctx context.Context, unsettledOnly bool) ([]Balance, error) {
	snap, err := s.store.Snapshot(ctx, storage.ExpenseFilter{UnsettledOnly: unsettledOnly})
	if err != nil {
		return nil, storeError("balances", err)
	}
	computed, err := aggregate(snap)
	if err != nil {
		slog.Error("balances: aggregation failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return toBalances(computed, userNames(snap.Users)), nil
}

// planError maps planner failures. A conservation violation carries the
// imbalance and tolerance as an error detail.
func (s *LedgerService) planError(err error) error {
	var conservation *calculator.ConservationError
	if !errors.As(err, &conservation) {
		slog.Error("GetSettlementPlan failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}

	if s.metrics != nil {
		s.metrics.ConservationViolations.Inc()
	}
	slog.Error("GetSettlementPlan: balances do not conserve",
		"imbalance", conservation.Imbalance.String(),
		"tolerance", conservation.Tolerance.String(),
	)

	connectErr := connect.NewError(connect.CodeInternal, err)
	info, infoErr := structpb.NewStruct(map[string]any{
		"imbalance": conservation.Imbalance.String(),
		"tolerance": conservation.Tolerance.String(),
	})
	if infoErr == nil {
		if detail, detailErr := connect.NewErrorDetail(info); detailErr == nil {
			connectErr.AddDetail(detail)
		}
	}
	return connectErr
}

// publish notifies subscribers of a change. Delivery failures never fail the RPC.
func (s *LedgerService) publish(ctx context.Context, kind events.Kind, id string) {
	if err := s.publisher.Publish(ctx, events.New(kind, id)); err != nil {
		slog.Warn("Failed to publish event", "kind", kind, "id", id, "error", err)
	}
}

// storeError maps storage errors onto Connect codes.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
