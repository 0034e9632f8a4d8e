package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"instapic-ticketing/internal/auth"
	"instapic-ticketing/internal/catalog"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/payment"
	"instapic-ticketing/internal/sse"
	"instapic-ticketing/internal/tickets"
	"instapic-ticketing/internal/tickets/qr"
	"instapic-ticketing/internal/tickets/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTicketDBLayer is a mock implementation of the TicketDBLayer interface
type MockTicketDBLayer struct {
	mock.Mock
}

func (m *MockTicketDBLayer) InsertTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error) {
	args := m.Called(ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketDBLayer) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketDBLayer) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketDBLayer) MarkTicketUsed(ctx context.Context, code string, sessionID, imageURL *string) (*models.Ticket, error) {
	args := m.Called(code, sessionID, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketDBLayer) ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockTicketDBLayer) GetTotalTicketsCount(ctx context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockTicketDBLayer) CountTicketsByEvent(ctx context.Context) ([]models.TicketCount, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TicketCount), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, orderID string) (*payment.Verification, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Verification), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTicketIssued(ctx context.Context, ticket models.Ticket) error {
	return m.Called(ticket.TicketCode).Error(0)
}

func (m *MockPublisher) PublishTicketUsed(ctx context.Context, ticket models.Ticket) error {
	return m.Called(ticket.TicketCode).Error(0)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Package{
		{ID: "basic", Name: "Basic", AmountCents: 2000, Prints: 2, GIF: true, Boomerang: false, DigitalAccess: true},
		{ID: "deluxe", Name: "Deluxe", AmountCents: 4500, Prints: 4, GIF: true, Boomerang: true, DigitalAccess: true},
	})
	require.NoError(t, err)
	return cat
}

func newMockService(t *testing.T, verifier payment.Verifier) (*service.TicketService, *MockTicketDBLayer) {
	t.Helper()
	mockDB := new(MockTicketDBLayer)
	svc := service.NewTicketService(mockDB, testCatalog(t), verifier, logger.Nop(), service.Options{
		DefaultEventCode: "GLOBAL_EVENT",
		MaxCodeAttempts:  3,
	})
	return svc, mockDB
}

// sequence returns draws in order, repeating the last one.
func sequence(values ...int64) func() (int64, error) {
	i := 0
	return func() (int64, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v, nil
	}
}

func strPtr(s string) *string { return &s }

func TestNewTicketService_Defaults(t *testing.T) {
	svc := service.NewTicketService(new(MockTicketDBLayer), testCatalog(t), nil, nil, service.Options{DefaultEventCode: "GALA"})

	assert.Equal(t, 50, svc.Options().MaxCodeAttempts)
	assert.Equal(t, "GALA", svc.Options().DefaultEventCode)
	assert.IsType(t, payment.Unconfigured{}, svc.Verifier)
}

func TestIssueDev(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	svc.Codes.WithDraw(sequence(42))

	mockDB.On("CodeExists", "000042").Return(false, nil)
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool {
		return tk.TicketCode == "000042" &&
			tk.PackageID == "basic" &&
			tk.AmountCents == 2000 &&
			tk.EventCode == "GLOBAL_EVENT" &&
			tk.ExternalOrderID == nil
	})).Return(&models.Ticket{ID: 1, TicketCode: "000042", PackageID: "basic", Status: models.TicketStatusIssued}, nil)

	ticket, err := svc.IssueDev(context.Background(), "basic")

	require.NoError(t, err)
	assert.Equal(t, "000042", ticket.TicketCode)
	mockDB.AssertExpectations(t)
}

func TestIssueDev_UnknownPackage(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	_, err := svc.IssueDev(context.Background(), "platinum")

	assert.ErrorIs(t, err, tickets.ErrUnknownPackage)
	mockDB.AssertNotCalled(t, "InsertTicket", mock.Anything)
	mockDB.AssertNotCalled(t, "CodeExists", mock.Anything)
}

func TestIssueDev_RetriesOnDuplicateInsert(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	svc.Codes.WithDraw(sequence(111111, 222222))

	mockDB.On("CodeExists", mock.Anything).Return(false, nil)
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool { return tk.TicketCode == "111111" })).
		Return(nil, tickets.ErrDuplicateCode).Once()
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool { return tk.TicketCode == "222222" })).
		Return(&models.Ticket{TicketCode: "222222", Status: models.TicketStatusIssued}, nil).Once()

	ticket, err := svc.IssueDev(context.Background(), "basic")

	require.NoError(t, err)
	assert.Equal(t, "222222", ticket.TicketCode)
	mockDB.AssertNumberOfCalls(t, "InsertTicket", 2)
}

func TestIssueDev_ExhaustedAfterCap(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	mockDB.On("CodeExists", mock.Anything).Return(false, nil)
	mockDB.On("InsertTicket", mock.Anything).Return(nil, tickets.ErrDuplicateCode)

	_, err := svc.IssueDev(context.Background(), "basic")

	assert.ErrorIs(t, err, tickets.ErrExhaustedCodeSpace)
	mockDB.AssertNumberOfCalls(t, "InsertTicket", 3)
}

func TestIssueDev_GeneratorExhausted(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	mockDB.On("CodeExists", mock.Anything).Return(true, nil)

	_, err := svc.IssueDev(context.Background(), "basic")

	assert.ErrorIs(t, err, tickets.ErrExhaustedCodeSpace)
	mockDB.AssertNumberOfCalls(t, "CodeExists", 3)
	mockDB.AssertNotCalled(t, "InsertTicket", mock.Anything)
}

func TestIssueDev_CheckAndInsertShareOneBudget(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	svc.Codes.WithDraw(sequence(1, 2, 3))

	mockDB.On("CodeExists", "000001").Return(true, nil)
	mockDB.On("CodeExists", "000002").Return(false, nil)
	mockDB.On("CodeExists", "000003").Return(false, nil)
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool { return tk.TicketCode == "000002" })).
		Return(nil, tickets.ErrDuplicateCode).Once()
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool { return tk.TicketCode == "000003" })).
		Return(&models.Ticket{TicketCode: "000003", Status: models.TicketStatusIssued}, nil).Once()

	ticket, err := svc.IssueDev(context.Background(), "basic")

	require.NoError(t, err)
	assert.Equal(t, "000003", ticket.TicketCode)
	mockDB.AssertNumberOfCalls(t, "CodeExists", 3)
	mockDB.AssertNumberOfCalls(t, "InsertTicket", 2)
}

func TestIssueDev_MixedCollisionsExhaustBudget(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	svc.Codes.WithDraw(sequence(1, 2, 3))

	mockDB.On("CodeExists", "000001").Return(true, nil)
	mockDB.On("CodeExists", "000002").Return(false, nil)
	mockDB.On("CodeExists", "000003").Return(true, nil)
	mockDB.On("InsertTicket", mock.Anything).Return(nil, tickets.ErrDuplicateCode)

	_, err := svc.IssueDev(context.Background(), "basic")

	assert.ErrorIs(t, err, tickets.ErrExhaustedCodeSpace)
	mockDB.AssertNumberOfCalls(t, "CodeExists", 3)
	mockDB.AssertNumberOfCalls(t, "InsertTicket", 1)
}

func TestIssueDev_StoreError(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	mockDB.On("CodeExists", mock.Anything).Return(false, nil)
	mockDB.On("InsertTicket", mock.Anything).Return(nil, errors.New("disk full"))

	_, err := svc.IssueDev(context.Background(), "basic")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, tickets.ErrExhaustedCodeSpace)
	mockDB.AssertNumberOfCalls(t, "InsertTicket", 1)
}

func TestIssueFromPayment(t *testing.T) {
	verifier := new(MockVerifier)
	verifier.On("Verify", "pi_1").Return(&payment.Verification{PackageID: "deluxe", AmountCents: 3900}, nil)

	svc, mockDB := newMockService(t, verifier)
	svc.Codes.WithDraw(sequence(7))

	mockDB.On("CodeExists", "000007").Return(false, nil)
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool {
		return tk.PackageID == "deluxe" &&
			tk.AmountCents == 3900 &&
			tk.EventCode == "GLOBAL_EVENT" &&
			tk.ExternalOrderID != nil && *tk.ExternalOrderID == "pi_1"
	})).Return(&models.Ticket{TicketCode: "000007", PackageID: "deluxe", AmountCents: 3900}, nil)

	ticket, err := svc.IssueFromPayment(context.Background(), " pi_1 ")

	require.NoError(t, err)
	assert.Equal(t, "000007", ticket.TicketCode)
	verifier.AssertExpectations(t)
	mockDB.AssertExpectations(t)
}

func TestIssueFromPayment_UsesVerifierEventCode(t *testing.T) {
	verifier := new(MockVerifier)
	verifier.On("Verify", "pi_2").Return(&payment.Verification{PackageID: "basic", AmountCents: 2000, EventCode: "GALA"}, nil)

	svc, mockDB := newMockService(t, verifier)
	mockDB.On("CodeExists", mock.Anything).Return(false, nil)
	mockDB.On("InsertTicket", mock.MatchedBy(func(tk models.Ticket) bool { return tk.EventCode == "GALA" })).
		Return(&models.Ticket{TicketCode: "123456"}, nil)

	_, err := svc.IssueFromPayment(context.Background(), "pi_2")

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestIssueFromPayment_Unverified(t *testing.T) {
	tests := []struct {
		name     string
		verifier payment.Verifier
	}{
		{"unconfigured", payment.Unconfigured{}},
		{"verifier error", func() payment.Verifier {
			v := new(MockVerifier)
			v.On("Verify", "order-1").Return(nil, errors.New("timeout"))
			return v
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockDB := newMockService(t, tt.verifier)

			_, err := svc.IssueFromPayment(context.Background(), "order-1")

			assert.ErrorIs(t, err, tickets.ErrPaymentUnverified)
			mockDB.AssertNotCalled(t, "InsertTicket", mock.Anything)
		})
	}
}

func TestIssueFromPayment_MissingOrderID(t *testing.T) {
	verifier := new(MockVerifier)
	svc, _ := newMockService(t, verifier)

	_, err := svc.IssueFromPayment(context.Background(), "  ")

	assert.ErrorIs(t, err, tickets.ErrMissingOrderID)
	verifier.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestIssue_PublishesAndEmits(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	publisher := new(MockPublisher)
	svc.Publisher = publisher
	svc.Emitter = sse.NewTicketEventEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Emitter.Subscribe(ctx, "000042")

	svc.Codes.WithDraw(sequence(42))
	mockDB.On("CodeExists", "000042").Return(false, nil)
	mockDB.On("InsertTicket", mock.Anything).Return(&models.Ticket{TicketCode: "000042", Status: models.TicketStatusIssued}, nil)
	publisher.On("PublishTicketIssued", "000042").Return(errors.New("broker down"))

	ticket, err := svc.IssueDev(context.Background(), "basic")

	require.NoError(t, err, "publish failures must not fail issuance")
	assert.Equal(t, "000042", ticket.TicketCode)
	publisher.AssertExpectations(t)

	event := <-events
	assert.Equal(t, models.TicketEventIssued, event.Type)
}

func TestRedeemCheck(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTicketByCode", "012345").Return(&models.Ticket{
		TicketCode: "012345", PackageID: "basic", EventCode: "GLOBAL_EVENT",
		AmountCents: 2000, Status: models.TicketStatusIssued,
	}, nil)

	result, err := svc.RedeemCheck(context.Background(), " 012345 ")

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "012345", result.TicketCode)
	assert.Equal(t, models.TicketStatusIssued, result.Status)
	require.NotNil(t, result.Extras)
	require.NotNil(t, result.Extras.Prints)
	assert.Equal(t, 2, *result.Extras.Prints)
	assert.True(t, result.Extras.GIF)
	assert.False(t, result.Extras.Boomerang)
	assert.True(t, result.Extras.DigitalAccess)
	mockDB.AssertNotCalled(t, "MarkTicketUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeemCheck_PackageNoLongerInCatalog(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTicketByCode", "555555").Return(&models.Ticket{TicketCode: "555555", PackageID: "retired"}, nil)

	result, err := svc.RedeemCheck(context.Background(), "555555")

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Nil(t, result.Extras.Prints)
	assert.False(t, result.Extras.GIF)
}

func TestRedeemCheck_FreePackageKeepsFullPayload(t *testing.T) {
	cat, err := catalog.New([]catalog.Package{{ID: "free", Name: "Free", AmountCents: 0, Prints: 1}})
	require.NoError(t, err)
	mockDB := new(MockTicketDBLayer)
	svc := service.NewTicketService(mockDB, cat, nil, logger.Nop(), service.Options{DefaultEventCode: "E"})
	mockDB.On("GetTicketByCode", "000123").Return(&models.Ticket{
		TicketCode: "000123",
		PackageID:  "free",
		EventCode:  "E",
		Status:     models.TicketStatusIssued,
	}, nil)

	result, err := svc.RedeemCheck(context.Background(), "000123")
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, true, body["valid"])
	assert.Contains(t, body, "amount_cents")
	assert.EqualValues(t, 0, body["amount_cents"])
	assert.Equal(t, "ISSUED", body["status"])
	assert.NotContains(t, body, "reason")
}

func TestRedeemResult_InvalidCarriesOnlyReason(t *testing.T) {
	data, err := json.Marshal(service.RedeemResult{Reason: tickets.ReasonUnknownCode})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false,"reason":"unknown_code"}`, string(data))
}

func TestRedeemCheck_Invalid(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTicketByCode", "999999").Return(nil, tickets.ErrTicketNotFound)

	result, err := svc.RedeemCheck(context.Background(), "")
	assert.ErrorIs(t, err, tickets.ErrMissingCode)
	assert.False(t, result.Valid)
	assert.Equal(t, tickets.ReasonMissingCode, result.Reason)

	result, err = svc.RedeemCheck(context.Background(), "999999")
	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)
	assert.False(t, result.Valid)
	assert.Equal(t, tickets.ReasonUnknownCode, result.Reason)
}

func TestRedeemByQR(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	svc.QR = qr.NewQRGenerator("secret")
	mockDB.On("GetTicketByCode", "246810").Return(&models.Ticket{TicketCode: "246810", PackageID: "deluxe"}, nil)

	payload, err := svc.QR.Seal(models.Ticket{TicketCode: "246810", EventCode: "GLOBAL_EVENT"})
	require.NoError(t, err)

	result, err := svc.RedeemByQR(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "246810", result.TicketCode)

	result, err = svc.RedeemByQR(context.Background(), "garbage")
	assert.ErrorIs(t, err, tickets.ErrInvalidQR)
	assert.Equal(t, tickets.ReasonInvalidQR, result.Reason)
}

func TestCompleteSession(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	publisher := new(MockPublisher)
	svc.Publisher = publisher

	session, image := strPtr("s1"), strPtr("http://x/img.jpg")
	mockDB.On("GetTicketByCode", "012345").Return(&models.Ticket{TicketCode: "012345"}, nil)
	mockDB.On("MarkTicketUsed", "012345", session, image).
		Return(&models.Ticket{TicketCode: "012345", Status: models.TicketStatusUsed, SessionID: session, ImageURL: image}, nil)
	publisher.On("PublishTicketUsed", "012345").Return(nil)

	ticket, err := svc.CompleteSession(context.Background(), "012345", session, image)

	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusUsed, ticket.Status)
	mockDB.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestMirrorCalls_LogKiosk(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	var buf bytes.Buffer
	svc.Logger = logger.NewWithWriter(&buf)

	mockDB.On("GetTicketByCode", "012345").Return(&models.Ticket{TicketCode: "012345", PackageID: "basic"}, nil)
	mockDB.On("MarkTicketUsed", "012345", (*string)(nil), (*string)(nil)).
		Return(&models.Ticket{TicketCode: "012345", Status: models.TicketStatusUsed}, nil)

	ctx := auth.WithKioskID(context.Background(), "booth-7")
	_, err := svc.RedeemCheck(ctx, "012345")
	require.NoError(t, err)
	_, err = svc.CompleteSession(ctx, "012345", nil, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "redeem check by kiosk booth-7")
	assert.Contains(t, buf.String(), "session complete by kiosk booth-7")
}

func TestCompleteSession_BlankValuesAreAbsent(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	mockDB.On("GetTicketByCode", "012345").Return(&models.Ticket{TicketCode: "012345"}, nil)
	mockDB.On("MarkTicketUsed", "012345", (*string)(nil), (*string)(nil)).
		Return(&models.Ticket{TicketCode: "012345", Status: models.TicketStatusUsed}, nil)

	_, err := svc.CompleteSession(context.Background(), "012345", strPtr(" "), nil)

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestCompleteSession_Errors(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTicketByCode", "999999").Return(nil, tickets.ErrTicketNotFound)

	_, err := svc.CompleteSession(context.Background(), " ", nil, nil)
	assert.ErrorIs(t, err, tickets.ErrMissingCode)

	_, err = svc.CompleteSession(context.Background(), "999999", strPtr("s1"), nil)
	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)

	mockDB.AssertNotCalled(t, "MarkTicketUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTicket_BlankCode(t *testing.T) {
	svc, mockDB := newMockService(t, nil)

	_, err := svc.GetTicket(context.Background(), "")

	assert.ErrorIs(t, err, tickets.ErrMissingCode)
	mockDB.AssertNotCalled(t, "GetTicketByCode", mock.Anything)
}

func TestLookupTicket(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTicketByCode", "012345").Return(&models.Ticket{TicketCode: "012345", PackageID: "deluxe"}, nil)
	mockDB.On("GetTicketByCode", "000001").Return(&models.Ticket{TicketCode: "000001", PackageID: "retired"}, nil)

	lookup, err := svc.LookupTicket(context.Background(), "012345")
	require.NoError(t, err)
	require.NotNil(t, lookup.Package)
	assert.Equal(t, "Deluxe", lookup.Package.Name)

	lookup, err = svc.LookupTicket(context.Background(), "000001")
	require.NoError(t, err)
	assert.Nil(t, lookup.Package)
}

func TestListRecent(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("ListRecentTickets", service.DefaultListLimit).Return([]models.Ticket{
		{TicketCode: "000002", PackageID: "deluxe", AmountCents: 4550},
		{TicketCode: "000001", PackageID: "retired", AmountCents: 2000},
	}, nil)
	mockDB.On("ListRecentTickets", 5).Return([]models.Ticket{}, nil)

	rows, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Deluxe", rows[0].PackageName)
	assert.Equal(t, "45.50", rows[0].AmountDollars)
	assert.Equal(t, "retired", rows[1].PackageName)
	assert.Equal(t, "20.00", rows[1].AmountDollars)

	_, err = svc.ListRecent(context.Background(), -3)
	require.NoError(t, err)
	mockDB.AssertNumberOfCalls(t, "ListRecentTickets", 2)

	rows, err = svc.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSummary(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTotalTicketsCount").Return(3, nil)
	mockDB.On("CountTicketsByEvent").Return([]models.TicketCount{
		{EventCode: "GLOBAL_EVENT", Status: models.TicketStatusIssued, Count: 2},
		{EventCode: "GLOBAL_EVENT", Status: models.TicketStatusUsed, Count: 1},
	}, nil)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Len(t, summary.ByEvent, 2)
}

func TestSummary_Error(t *testing.T) {
	svc, mockDB := newMockService(t, nil)
	mockDB.On("GetTotalTicketsCount").Return(0, errors.New("db down"))

	_, err := svc.Summary(context.Background())

	assert.Error(t, err)
}
