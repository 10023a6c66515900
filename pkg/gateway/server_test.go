package gateway

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stephenadhi/go-locobot/pkg/joy"
	"github.com/stephenadhi/go-locobot/pkg/teleop"
)

func testServer() (*Server, *joy.Buffer) {
	buf := joy.NewBuffer()
	status := func() teleop.Status {
		return teleop.Status{Model: "locobot_wx250s", RateHz: 25, Profile: "coarse"}
	}
	return NewServer(buf, status), buf
}

func TestCommandEndpointPublishes(t *testing.T) {
	s, buf := testServer()

	body := `{"pose_cmd": 1, "base_x_cmd": 0.3}`
	req := httptest.NewRequest("POST", "/api/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := buf.Snapshot()
	if got.Pose != joy.HomePose {
		t.Errorf("published pose_cmd = %d, want %d", got.Pose, joy.HomePose)
	}
	if got.BaseX != 0.3 {
		t.Errorf("published base_x = %f, want 0.3", got.BaseX)
	}
}

func TestCommandEndpointRejectsGarbage(t *testing.T) {
	s, buf := testServer()

	req := httptest.NewRequest("POST", "/api/command", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if !buf.Snapshot().IsZero() {
		t.Error("malformed frame reached the buffer")
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := testServer()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var st teleop.Status
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Model != "locobot_wx250s" || st.RateHz != 25 {
		t.Errorf("status = %+v, want model locobot_wx250s at 25 Hz", st)
	}
}

func TestWSRouteRequiresUpgrade(t *testing.T) {
	s, _ := testServer()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/joy", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("plain GET on /ws/joy = %d, want 426", resp.StatusCode)
	}
}
