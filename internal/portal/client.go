// Package portal is the customer-side half of the booking flow: the booking
// form, the booking list and the dashboard, talking to the API over HTTP.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/models"
)

const (
	confirmationPath = "/functions/v1/send-booking-confirmation"
	apiPrefix        = "/api/v1"
)

var ErrNoSession = errors.New("no active session")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Session is the signed-in user. It is created by SignIn, ended by SignOut
// and passed explicitly to every call that needs a user.
type Session struct {
	UserID       uuid.UUID
	Email        string
	DisplayName  string
	AccessToken  string
	RefreshToken string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient talks to the API at baseURL. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (cl *Client) do(ctx context.Context, method, path string, session *Session, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, cl.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil && session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &errBody)
		msg := errBody.Error
		if msg == "" {
			msg = errBody.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (cl *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var res struct {
		Data struct {
			User struct {
				ID    uuid.UUID `json:"id"`
				Email string    `json:"email"`
			} `json:"user"`
			DisplayName  string `json:"display_name"`
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	err := cl.do(ctx, http.MethodPost, apiPrefix+"/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &Session{
		UserID:       res.Data.User.ID,
		Email:        res.Data.User.Email,
		DisplayName:  res.Data.DisplayName,
		AccessToken:  res.Data.AccessToken,
		RefreshToken: res.Data.RefreshToken,
	}, nil
}

func (cl *Client) SignOut(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	return cl.do(ctx, http.MethodPost, apiPrefix+"/logout", session, nil, nil)
}

// SubmitBooking posts the booking to the confirmation function. session may
// be nil for anonymous bookings.
func (cl *Client) SubmitBooking(ctx context.Context, req *models.BookingRequest, session *Session) (*models.ConfirmationResponse, error) {
	var res models.ConfirmationResponse
	if err := cl.do(ctx, http.MethodPost, confirmationPath, session, req, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.New(res.Error)
	}
	return &res, nil
}

func (cl *Client) ListBookings(ctx context.Context, session *Session) ([]models.Booking, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	var res struct {
		Data []models.Booking `json:"data"`
	}
	if err := cl.do(ctx, http.MethodGet, apiPrefix+"/bookings", session, nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		res.Data = []models.Booking{}
	}
	return res.Data, nil
}

func (cl *Client) CancelBooking(ctx context.Context, session *Session, id uuid.UUID) error {
	if session == nil {
		return ErrNoSession
	}
	return cl.do(ctx, http.MethodPatch, apiPrefix+"/bookings/"+id.String()+"/cancel", session, nil, nil)
}

func (cl *Client) Stats(ctx context.Context, session *Session) (*models.DashboardStats, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	var res struct {
		Data models.DashboardStats `json:"data"`
	}
	if err := cl.do(ctx, http.MethodGet, apiPrefix+"/dashboard/stats", session, nil, &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}
