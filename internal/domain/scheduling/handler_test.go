package scheduling

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/washbay/washbay/internal/platform/db"
)

func handlerFixture(t *testing.T) (*Handler, *testFixture) {
	t.Helper()
	f := newFixture(t, testConfig())
	return NewHandler(f.svc), f
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req, httptest.NewRecorder()
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("want *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestHandlerAvailability(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/availability?service_id="+f.service.ID.String()+"&date=2026-03-02", "")
	c := e.NewContext(req, rec)

	if err := h.Availability(c); err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out struct {
		Date         string           `json:"date"`
		WorkingHours *json.RawMessage `json:"working_hours"`
		Slots        []string         `json:"available_slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if out.Date != "2026-03-02" {
		t.Errorf("date = %s", out.Date)
	}
	if out.WorkingHours == nil {
		t.Error("open day must include working_hours")
	}
	if len(out.Slots) == 0 {
		t.Error("open empty day must list slots")
	}
}

func TestHandlerAvailability_ClosedDayIs200(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	// Sunday.
	req, rec := jsonRequest(http.MethodGet, "/availability?service_id="+f.service.ID.String()+"&date=2026-03-01", "")
	c := e.NewContext(req, rec)

	if err := h.Availability(c); err != nil {
		t.Fatalf("closed day must not be an error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		WorkingHours *json.RawMessage `json:"working_hours"`
		Slots        []string         `json:"available_slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.WorkingHours != nil && string(*out.WorkingHours) != "null" {
		t.Errorf("working_hours = %s, want null", string(*out.WorkingHours))
	}
	if out.Slots == nil || len(out.Slots) != 0 {
		t.Errorf("available_slots = %v, want []", out.Slots)
	}
}

func TestHandlerAvailability_BadInput(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/availability?service_id="+f.service.ID.String()+"&date=03/02/2026", "")
	err := h.Availability(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusBadRequest {
		t.Error("malformed date must be 400")
	}

	req, rec = jsonRequest(http.MethodGet, "/availability?date=2026-03-02", "")
	err = h.Availability(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusBadRequest {
		t.Error("missing service_id must be 400")
	}

	req, rec = jsonRequest(http.MethodGet, "/availability?service_id="+uuid.NewString()+"&date=2026-03-02", "")
	err = h.Availability(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusNotFound {
		t.Error("unknown service must be 404")
	}
}

func bookBody(f *testFixture, start string) string {
	return fmt.Sprintf(`{"service_id":%q,"client_id":%q,"start_time":%q}`,
		f.service.ID, f.client.ID, start)
}

func TestHandlerBook(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/appointments", bookBody(f, "2026-03-02T10:00:00Z"))
	if err := h.Book(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var out struct {
		Appointment struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"appointment"`
		Payment struct {
			Status string `json:"status"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Appointment.Status != StatusScheduled {
		t.Errorf("appointment status = %s", out.Appointment.Status)
	}
	if out.Payment.Status != "pending" {
		t.Errorf("payment status = %s", out.Payment.Status)
	}
}

func TestHandlerBook_SlotTaken(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/appointments", bookBody(f, "2026-03-02T10:00:00Z"))
	if err := h.Book(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}

	req, rec = jsonRequest(http.MethodPost, "/appointments", bookBody(f, "2026-03-02T10:30:00Z"))
	err := h.Book(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusBadRequest {
		t.Fatalf("full slot must be 400, got %v", err)
	}
	var he *echo.HTTPError
	errors.As(err, &he)
	msg, ok := he.Message.(map[string]any)
	if !ok {
		t.Fatalf("message = %T", he.Message)
	}
	if msg["conflicts"] != 1 {
		t.Errorf("conflicts = %v, want 1", msg["conflicts"])
	}
}

func TestHandlerBook_Busy(t *testing.T) {
	h, f := handlerFixture(t)
	f.tx.err = db.ErrTxConflict
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/appointments", bookBody(f, "2026-03-02T10:00:00Z"))
	err := h.Book(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusConflict {
		t.Fatalf("serialization failure must be 409, got %v", err)
	}
}

func TestHandlerBook_MissingFields(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/appointments",
		fmt.Sprintf(`{"client_id":%q,"start_time":"2026-03-02T10:00:00Z"}`, f.client.ID))
	err := h.Book(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusBadRequest {
		t.Error("missing service_id must be 400")
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	h, _ := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/appointments/"+uuid.NewString(), "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.Get(c)
	if httpStatus(t, err) != http.StatusNotFound {
		t.Errorf("unknown appointment must be 404, got %v", err)
	}
}

func TestHandlerUpdateStatus_CancelRoutesThroughCancel(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	res, err := f.book(t, "2026-03-02 10:00")
	if err != nil {
		t.Fatal(err)
	}

	req, rec := jsonRequest(http.MethodPut, "/appointments/x/status", `{"status":"cancelled"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(res.Appointment.ID.String())

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	payments, _ := f.billing.ListByAppointment(req.Context(), res.Appointment.ID)
	if len(payments) != 1 || payments[0].Status != "voided" {
		t.Error("cancelling via the status route must void the payment")
	}
}

func TestHandlerList_FilterValidation(t *testing.T) {
	h, _ := handlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/appointments?status=shampooed", "")
	err := h.List(e.NewContext(req, rec))
	if httpStatus(t, err) != http.StatusBadRequest {
		t.Error("unknown status filter must be 400")
	}
}

func TestHandlerReschedule(t *testing.T) {
	h, f := handlerFixture(t)
	e := echo.New()

	res, err := f.book(t, "2026-03-02 10:00")
	if err != nil {
		t.Fatal(err)
	}

	req, rec := jsonRequest(http.MethodPut, "/appointments/x/reschedule", `{"start_time":"2026-03-02T14:00:00Z"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(res.Appointment.ID.String())

	if err := h.Reschedule(c); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
