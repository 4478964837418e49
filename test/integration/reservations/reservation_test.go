// Integration tests for the reservation flow. They need the users, rooms and
// reservations services running against a shared Mongo replica set:
//
//	TEST_USERS_URL=http://localhost:8083 \
//	TEST_ROOMS_URL=http://localhost:8082 \
//	TEST_RESERVATIONS_URL=http://localhost:8081 \
//	go test ./test/integration/...
package integrationtests

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"roomly/pkg/client"
	"roomly/pkg/model"
)

type env struct {
	users        *client.HttpClient
	rooms        *client.HttpClient
	reservations *client.HttpClient
	token        string
}

func setup(t *testing.T) *env {
	t.Helper()

	usersURL := os.Getenv("TEST_USERS_URL")
	roomsURL := os.Getenv("TEST_ROOMS_URL")
	reservationsURL := os.Getenv("TEST_RESERVATIONS_URL")
	if usersURL == "" || roomsURL == "" || reservationsURL == "" {
		t.Skip("integration environment not configured, set TEST_USERS_URL, TEST_ROOMS_URL and TEST_RESERVATIONS_URL")
	}

	e := &env{
		users:        client.NewHttpClient(usersURL),
		rooms:        client.NewHttpClient(roomsURL),
		reservations: client.NewHttpClient(reservationsURL),
	}
	e.token = registerUser(t, e)
	return e
}

func registerUser(t *testing.T, e *env) string {
	t.Helper()

	resp, err := e.users.POST("/api/v1/users/register", map[string]any{
		"email":    fmt.Sprintf("it-%d@example.com", rand.Int63()),
		"password": "integration-pass-1",
		"name":     "Integration Tester",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d: %s", resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Data model.AuthResponse `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}
	return envelope.Data.Token
}

func (e *env) authHeaders(extra map[string]string) map[string]string {
	headers := map[string]string{"Authorization": "Bearer " + e.token}
	for k, v := range extra {
		headers[k] = v
	}
	return headers
}

func createSeededRoom(t *testing.T, e *env, units int, start, end string) string {
	t.Helper()

	resp, err := e.rooms.Do(http.MethodPost, "/api/v1/rooms", map[string]any{
		"name":        fmt.Sprintf("it-room-%d", rand.Int63()),
		"location":    "Integration City",
		"capacity":    units,
		"price_cents": 10000,
	}, e.authHeaders(nil))
	if err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room returned %d: %s", resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Data model.Room `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	roomID := envelope.Data.ID

	resp, err = e.rooms.Do(http.MethodPost, "/api/v1/rooms/id/"+roomID+"/availability", map[string]any{
		"start_date": start,
		"end_date":   end,
		"units":      units,
	}, e.authHeaders(nil))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed returned %d: %s", resp.StatusCode, resp.Body)
	}

	return roomID
}

func reserve(t *testing.T, e *env, roomID, start, end string, qty int, idempotencyKey string) *client.Response {
	t.Helper()

	extra := map[string]string{}
	if idempotencyKey != "" {
		extra["Idempotency-Key"] = idempotencyKey
	}
	resp, err := e.reservations.Do(http.MethodPost, "/api/v1/reservations", map[string]any{
		"room_id":    roomID,
		"start_date": start,
		"end_date":   end,
		"quantity":   qty,
	}, e.authHeaders(extra))
	if err != nil {
		t.Fatalf("reserve request failed: %v", err)
	}
	return resp
}

func rangeDates() (string, string) {
	start := time.Now().AddDate(0, 0, 30)
	end := start.AddDate(0, 0, 2)
	return start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)
}

func TestReserveAndReplay(t *testing.T) {
	e := setup(t)
	start, end := rangeDates()
	roomID := createSeededRoom(t, e, 5, start, end)

	key := fmt.Sprintf("it-key-%d", rand.Int63())

	first := reserve(t, e, roomID, start, end, 2, key)
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first reserve returned %d: %s", first.StatusCode, first.Body)
	}

	var firstEnvelope struct {
		Data model.Booking `json:"data"`
	}
	if err := first.DecodeJSON(&firstEnvelope); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}

	second := reserve(t, e, roomID, start, end, 2, key)
	if second.StatusCode != http.StatusOK {
		t.Fatalf("replay returned %d, want 200: %s", second.StatusCode, second.Body)
	}

	var secondEnvelope struct {
		Data model.Booking `json:"data"`
	}
	if err := second.DecodeJSON(&secondEnvelope); err != nil {
		t.Fatalf("failed to decode replayed booking: %v", err)
	}
	if secondEnvelope.Data.ID != firstEnvelope.Data.ID {
		t.Errorf("replay returned booking %s, want %s", secondEnvelope.Data.ID, firstEnvelope.Data.ID)
	}
}

func TestOverbookingRejected(t *testing.T) {
	e := setup(t)
	start, end := rangeDates()
	roomID := createSeededRoom(t, e, 3, start, end)

	resp := reserve(t, e, roomID, start, end, 2, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first reserve returned %d: %s", resp.StatusCode, resp.Body)
	}

	resp = reserve(t, e, roomID, start, end, 2, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("oversell returned %d, want 409: %s", resp.StatusCode, resp.Body)
	}
}

// Concurrent attempts on one room must never oversell: each either books,
// fails on availability (409) or loses the lock race (423).
func TestConcurrentReservationsNeverOversell(t *testing.T) {
	e := setup(t)
	start, end := rangeDates()
	units := 5
	roomID := createSeededRoom(t, e, units, start, end)

	const attempts = 10
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			resp := reserve(t, e, roomID, start, end, 1, "")
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			booked++
		case http.StatusConflict, http.StatusLocked:
		default:
			t.Errorf("unexpected status %d", status)
		}
	}
	if booked > units {
		t.Fatalf("oversold: %d bookings for %d units", booked, units)
	}
	if booked == 0 {
		t.Error("expected at least one booking to succeed")
	}
}

func TestCancelRestoresAvailability(t *testing.T) {
	e := setup(t)
	start, end := rangeDates()
	roomID := createSeededRoom(t, e, 1, start, end)

	resp := reserve(t, e, roomID, start, end, 1, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve returned %d: %s", resp.StatusCode, resp.Body)
	}
	var envelope struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}

	resp = reserve(t, e, roomID, start, end, 1, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second reserve returned %d, want 409", resp.StatusCode)
	}

	cancelResp, err := e.reservations.Do(http.MethodDelete, "/api/v1/reservations/"+envelope.Data.ID, nil, e.authHeaders(nil))
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelResp.StatusCode != http.StatusOK {
		t.Fatalf("cancel returned %d: %s", cancelResp.StatusCode, cancelResp.Body)
	}

	resp = reserve(t, e, roomID, start, end, 1, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reserve after cancel returned %d, want 201: %s", resp.StatusCode, resp.Body)
	}
}
