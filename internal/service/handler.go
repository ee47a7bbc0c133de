package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "settleup.v1.LedgerService"

// Procedure paths of the LedgerService RPCs.
const (
	CreateUserProcedure          = "/" + LedgerServiceName + "/CreateUser"
	ListUsersProcedure           = "/" + LedgerServiceName + "/ListUsers"
	CreateExpenseProcedure       = "/" + LedgerServiceName + "/CreateExpense"
	ListExpensesProcedure        = "/" + LedgerServiceName + "/ListExpenses"
	UpdateExpenseStatusProcedure = "/" + LedgerServiceName + "/UpdateExpenseStatus"
	GetUserSummaryProcedure      = "/" + LedgerServiceName + "/GetUserSummary"
	GetBalancesProcedure         = "/" + LedgerServiceName + "/GetBalances"
	GetSettlementPlanProcedure   = "/" + LedgerServiceName + "/GetSettlementPlan"
)

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	routes := map[string]http.Handler{
		CreateUserProcedure:          connect.NewUnaryHandler(CreateUserProcedure, svc.CreateUser, opts...),
		ListUsersProcedure:           connect.NewUnaryHandler(ListUsersProcedure, svc.ListUsers, opts...),
		CreateExpenseProcedure:       connect.NewUnaryHandler(CreateExpenseProcedure, svc.CreateExpense, opts...),
		ListExpensesProcedure:        connect.NewUnaryHandler(ListExpensesProcedure, svc.ListExpenses, opts...),
		UpdateExpenseStatusProcedure: connect.NewUnaryHandler(UpdateExpenseStatusProcedure, svc.UpdateExpenseStatus, opts...),
		GetUserSummaryProcedure:      connect.NewUnaryHandler(GetUserSummaryProcedure, svc.GetUserSummary, opts...),
		GetBalancesProcedure:         connect.NewUnaryHandler(GetBalancesProcedure, svc.GetBalances, opts...),
		GetSettlementPlanProcedure:   connect.NewUnaryHandler(GetSettlementPlanProcedure, svc.GetSettlementPlan, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LedgerServiceClient calls a remote LedgerService.
type LedgerServiceClient struct {
	createUser          *connect.Client[CreateUserRequest, CreateUserResponse]
	listUsers           *connect.Client[ListUsersRequest, ListUsersResponse]
	createExpense       *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	listExpenses        *connect.Client[ListExpensesRequest, ListExpensesResponse]
	updateExpenseStatus *connect.Client[UpdateExpenseStatusRequest, UpdateExpenseStatusResponse]
	getUserSummary      *connect.Client[GetUserSummaryRequest, GetUserSummaryResponse]
	getBalances         *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getSettlementPlan   *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
}

// NewLedgerServiceClient creates a client for the server at baseURL
// (e.g. http://localhost:8080). Requests use the Connect protocol with JSON.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &LedgerServiceClient{
		createUser:          connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+CreateUserProcedure, opts...),
		listUsers:           connect.NewClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL+ListUsersProcedure, opts...),
		createExpense:       connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+CreateExpenseProcedure, opts...),
		listExpenses:        connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ListExpensesProcedure, opts...),
		updateExpenseStatus: connect.NewClient[UpdateExpenseStatusRequest, UpdateExpenseStatusResponse](httpClient, baseURL+UpdateExpenseStatusProcedure, opts...),
		getUserSummary:      connect.NewClient[GetUserSummaryRequest, GetUserSummaryResponse](httpClient, baseURL+GetUserSummaryProcedure, opts...),
		getBalances:         connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+GetBalancesProcedure, opts...),
		getSettlementPlan:   connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+GetSettlementPlanProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpenseStatus(ctx context.Context, req *connect.Request[UpdateExpenseStatusRequest]) (*connect.Response[UpdateExpenseStatusResponse], error) {
	return c.updateExpenseStatus.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetUserSummary(ctx context.Context, req *connect.Request[GetUserSummaryRequest]) (*connect.Response[GetUserSummaryResponse], error) {
	return c.getUserSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}
