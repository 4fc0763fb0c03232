package acceptance

import (
	"net/http"
	"testing"
	"time"
)

type rentalResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	ScooterID  string     `json:"scooterId"`
	State      string     `json:"state"`
	StartTime  time.Time  `json:"startTime"`
	StopTime   *time.Time `json:"stopTime"`
	ReturnTime *time.Time `json:"returnTime"`
	TotalPrice *int64     `json:"totalPrice"`
	Returned   bool       `json:"returned"`
}

func TestRentalLifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	userID := ts.CreateTestUser(t, "rider1")
	scooterID := ts.CreateTestScooter(t, 59.32, 18.06)

	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	w := ts.POST("/rentals", map[string]any{
		"userId":    userID,
		"scooterId": scooterID,
		"startTime": t0.Format(time.RFC3339),
	})
	requireStatus(t, w, http.StatusCreated)
	session := decode[rentalResponse](t, w)
	if session.State != "active" || session.Returned {
		t.Fatalf("expected an open active session, got %+v", session)
	}

	// The scooter is now out.
	w = ts.GET("/scooters/" + scooterID)
	requireStatus(t, w, http.StatusOK)
	if status := decode[map[string]any](t, w)["status"]; status != "in-use" {
		t.Fatalf("expected scooter in-use, got %v", status)
	}

	// A second rider cannot take the same scooter.
	rival := ts.CreateTestUser(t, "rider2")
	w = ts.POST("/rentals", map[string]any{
		"userId":    rival,
		"scooterId": scooterID,
		"startTime": t0.Add(time.Minute).Format(time.RFC3339),
	})
	requireStatus(t, w, http.StatusConflict)

	// Return before stop is rejected.
	w = ts.POST("/rentals/"+session.ID+"/return", map[string]any{
		"returnTime": t0.Add(10 * time.Minute).Format(time.RFC3339),
		"location":   map[string]float64{"lat": 59.3, "lon": 18.0},
	})
	requireStatus(t, w, http.StatusConflict)

	// Stop after 15 minutes fixes the price: 15 * 10 cents.
	w = ts.POST("/rentals/"+session.ID+"/stop", map[string]any{
		"stopTime": t0.Add(15 * time.Minute).Format(time.RFC3339),
	})
	requireStatus(t, w, http.StatusOK)
	stopped := decode[rentalResponse](t, w)
	if stopped.State != "stopped" {
		t.Fatalf("expected stopped state, got %q", stopped.State)
	}
	if stopped.TotalPrice == nil || *stopped.TotalPrice != 150 {
		t.Fatalf("expected total price 150, got %+v", stopped.TotalPrice)
	}

	// Stopping twice conflicts.
	w = ts.POST("/rentals/"+session.ID+"/stop", map[string]any{
		"stopTime": t0.Add(16 * time.Minute).Format(time.RFC3339),
	})
	requireStatus(t, w, http.StatusConflict)

	// Return closes the session and frees the scooter at the drop-off point.
	w = ts.POST("/rentals/"+session.ID+"/return", map[string]any{
		"returnTime": t0.Add(20 * time.Minute).Format(time.RFC3339),
		"location":   map[string]float64{"lat": 59.3, "lon": 18.0},
	})
	requireStatus(t, w, http.StatusOK)
	returned := decode[rentalResponse](t, w)
	if returned.State != "completed" || !returned.Returned {
		t.Fatalf("expected completed session, got %+v", returned)
	}

	w = ts.GET("/scooters/" + scooterID)
	requireStatus(t, w, http.StatusOK)
	sc := decode[map[string]any](t, w)
	if sc["status"] != "available" {
		t.Fatalf("expected scooter available after return, got %v", sc["status"])
	}
	if sc["lat"].(float64) != 59.3 || sc["lon"].(float64) != 18.0 {
		t.Fatalf("expected scooter moved to drop-off point, got %v,%v", sc["lat"], sc["lon"])
	}

	// The freed scooter can be rented again.
	w = ts.POST("/rentals", map[string]any{
		"userId":    rival,
		"scooterId": scooterID,
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestRentalCancel(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	userID := ts.CreateTestUser(t, "rider1")
	scooterID := ts.CreateTestScooter(t, 59.32, 18.06)

	w := ts.POST("/rentals", map[string]any{
		"userId":    userID,
		"scooterId": scooterID,
	})
	requireStatus(t, w, http.StatusCreated)
	session := decode[rentalResponse](t, w)

	w = ts.POST("/rentals/"+session.ID+"/cancel", nil)
	requireStatus(t, w, http.StatusOK)
	cancelled := decode[rentalResponse](t, w)
	if cancelled.State != "cancelled" {
		t.Fatalf("expected cancelled state, got %q", cancelled.State)
	}
	if cancelled.TotalPrice != nil {
		t.Fatalf("cancelled session must not be charged, got %v", *cancelled.TotalPrice)
	}

	w = ts.GET("/scooters/" + scooterID)
	requireStatus(t, w, http.StatusOK)
	if status := decode[map[string]any](t, w)["status"]; status != "available" {
		t.Fatalf("expected scooter freed after cancel, got %v", status)
	}
}

func TestRentalLegacyTimestamps(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	userID := ts.CreateTestUser(t, "rider1")
	scooterID := ts.CreateTestScooter(t, 59.32, 18.06)

	// The old system sent local-time strings without an offset.
	w := ts.POST("/rentals", map[string]any{
		"userId":    userID,
		"scooterId": scooterID,
		"startTime": "2024-06-01 12:00:00",
	})
	requireStatus(t, w, http.StatusCreated)

	w = ts.POST("/rentals", map[string]any{
		"userId":    userID,
		"scooterId": scooterID,
		"startTime": "noon-ish",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestRentalHistory(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	userID := ts.CreateTestUser(t, "rider1")
	s1 := ts.CreateTestScooter(t, 59.32, 18.06)
	s2 := ts.CreateTestScooter(t, 59.33, 18.07)

	for _, scooterID := range []string{s1, s2} {
		w := ts.POST("/rentals", map[string]any{
			"userId":    userID,
			"scooterId": scooterID,
		})
		requireStatus(t, w, http.StatusCreated)
	}

	w := ts.GET("/users/" + userID + "/rentals")
	requireStatus(t, w, http.StatusOK)
	history := decode[[]rentalResponse](t, w)
	if len(history) != 2 {
		t.Fatalf("expected 2 sessions in history, got %d", len(history))
	}
}
