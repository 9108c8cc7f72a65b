package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/salonflow/salonflow/libs/auth"
)

// Seeds a demo business through the gateway so local stacks have
// something to book against: profile, one staff member with a
// Mon-Fri week, a service, and a sample blackout date.
func main() {
	var (
		baseURL  = flag.String("base-url", getenv("BASE_URL", "http://localhost:8080"), "gateway base url")
		business = flag.String("business-id", getenv("BUSINESS_ID", "demo-biz"), "business id to seed")
		timezone = flag.String("timezone", getenv("BUSINESS_TZ", "UTC"), "IANA timezone for the business")
		secret   = flag.String("secret", getenv("JWT_SECRET", "dev-secret"), "HS256 secret shared with the gateway")
		staff    = flag.String("staff-name", getenv("STAFF_NAME", "Demo Stylist"), "display name for the seeded staff member")
	)
	flag.Parse()

	if strings.TrimSpace(*business) == "" {
		fatal("BUSINESS_ID is required")
	}

	now := time.Now().UTC()
	token, err := auth.SignHS256(auth.Claims{
		Sub:        "schedule-seeder",
		BusinessID: *business,
		Role:       auth.RoleOwner,
		Iat:        now.Unix(),
		Exp:        now.Add(10 * time.Minute).Unix(),
	}, *secret)
	if err != nil {
		fatal(err.Error())
	}

	c := client{base: strings.TrimRight(*baseURL, "/"), token: token, business: *business}

	if err := c.put("/api/v1/schedule/profile", map[string]any{
		"name":     "Demo Salon",
		"timezone": *timezone,
	}); err != nil {
		fatal("profile: " + err.Error())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.post("/api/v1/schedule/staff", map[string]any{
		"name": *staff,
	}, &created); err != nil {
		fatal("staff: " + err.Error())
	}
	fmt.Printf("staff_id=%s\n", created.ID)

	var svc struct {
		ID string `json:"id"`
	}
	if err := c.post("/api/v1/schedule/services", map[string]any{
		"name":             "Haircut",
		"duration_minutes": 30,
		"price":            25.00,
	}, &svc); err != nil {
		fatal("service: " + err.Error())
	}
	fmt.Printf("service_id=%s\n", svc.ID)

	// A blackout two weeks out keeps the demo calendar from looking
	// uniformly open.
	blackout := now.AddDate(0, 0, 14).Format("2006-01-02")
	if err := c.post("/api/v1/schedule/staff/blackouts?staff_id="+created.ID, map[string]any{
		"date": blackout,
	}, nil); err != nil {
		fatal("blackout: " + err.Error())
	}
	fmt.Printf("blackout=%s\n", blackout)
}

type client struct {
	base     string
	token    string
	business string
}

func (c client) post(path string, body map[string]any, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c client) put(path string, body map[string]any) error {
	return c.do(http.MethodPut, path, body, nil)
}

func (c client) do(method, path string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
