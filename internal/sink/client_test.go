package sink

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"attendance-service/internal/config"
	"attendance-service/internal/model"
)

func testConfig(url string) *config.SinkConfig {
	return &config.SinkConfig{
		URL:          url,
		Timeout:      5 * time.Second,
		RegistryTab:  "Register",
		FetchTimeout: 5 * time.Second,
	}
}

func TestWriteRecordPostsJSON(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	record := model.AttendanceRecord{
		Role:        model.RoleStudent,
		CardID:      "1234567890",
		Name:        "A. Kumar",
		RollNo:      "17",
		Subject:     "Mathematics",
		Time:        "10:35:00",
		Date:        "2026-03-10",
		Status:      string(model.StatusOnTime),
		LectureSlot: 2,
	}
	if err := client.WriteRecord(context.Background(), record); err != nil {
		t.Fatalf("write record: %v", err)
	}

	if got["role"] != "student" || got["card_id"] != "1234567890" {
		t.Errorf("unexpected identity fields: %v", got)
	}
	if got["status"] != "On-time" || got["lecture_slot"] != float64(2) {
		t.Errorf("unexpected classification fields: %v", got)
	}
	if got["time"] != "10:35:00" || got["date"] != "2026-03-10" {
		t.Errorf("unexpected timestamp fields: %v", got)
	}
	if _, present := got["register_only"]; present {
		t.Error("register_only should be omitted for attendance records")
	}
}

func TestWriteRecordRegisterOnly(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	record := model.AttendanceRecord{
		Role:         model.RoleStudent,
		CardID:       "1234567890",
		Name:         "A. Kumar",
		Date:         "2026-03-10",
		RegisterOnly: true,
	}
	if err := client.WriteRecord(context.Background(), record); err != nil {
		t.Fatalf("write record: %v", err)
	}
	if got["register_only"] != true {
		t.Fatalf("expected register_only true, got %v", got)
	}
}

func TestWriteRecordRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	err := client.WriteRecord(context.Background(), model.AttendanceRecord{CardID: "1234567890"})
	if !errors.Is(err, model.ErrSinkWriteFailed) {
		t.Fatalf("expected ErrSinkWriteFailed, got %v", err)
	}
}

func TestWriteRecordConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(testConfig(server.URL), zap.NewNop())
	err := client.WriteRecord(context.Background(), model.AttendanceRecord{CardID: "1234567890"})
	if !errors.Is(err, model.ErrSinkWriteFailed) {
		t.Fatalf("expected ErrSinkWriteFailed, got %v", err)
	}
}

func TestFetchUsersParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tab := r.URL.Query().Get("tab"); tab != "Register" {
			t.Errorf("expected tab=Register, got %q", tab)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"card_id": "1234567890", "role": "Student", "name": "A. Kumar", "roll_no": "17", "subject": ""},
			{"card_id": "TCHR567890", "role": "TEACHER", "name": "T. Rao", "roll_no": "", "subject": "Mathematics"}
		]`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	users, err := client.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("fetch users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	// Roles are normalized to lower case, blank fields default to "-"
	if users[0].Role != model.RoleStudent || users[0].Subject != "-" {
		t.Errorf("unexpected student row: %+v", users[0])
	}
	if users[1].Role != model.RoleTeacher || users[1].RollNo != "-" {
		t.Errorf("unexpected teacher row: %+v", users[1])
	}
}

func TestFetchUsersErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	if _, err := client.FetchUsers(context.Background()); !errors.Is(err, model.ErrRegistryFetchFailed) {
		t.Fatalf("expected ErrRegistryFetchFailed, got %v", err)
	}
}

func TestFetchUsersMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not": "an array"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	if _, err := client.FetchUsers(context.Background()); !errors.Is(err, model.ErrRegistryFetchFailed) {
		t.Fatalf("expected ErrRegistryFetchFailed, got %v", err)
	}
}
