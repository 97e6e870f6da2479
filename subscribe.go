package multiplicity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/multiplicity/mailinglist"
)

// Subscriber adds people to the mailing list. *mailinglist.Client
// implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, s mailinglist.Subscriber) error
}

// Subscribe endpoint responses.
const (
	MsgSubscribed        = "Successfully subscribed to mailing list"
	MsgMissingFields     = "Name and email are required"
	MsgInvalidEmail      = "Invalid email address"
	MsgConfigError       = "Server configuration error"
	MsgAlreadySubscribed = "This email is already subscribed"
	MsgSubscribeFailed   = "Failed to subscribe"
	MsgUnexpected        = "An unexpected error occurred"
	MsgTooManyRequests   = "Too many requests. Try again later."
)

// Fields are loosely typed so a number or bool reaches validation as a 400
// instead of failing the decode.
type subscribeRequest struct {
	Name  any `json:"name"`
	Email any `json:"email"`
}

// field returns v as trimmed text; null, false, 0 and blank strings are empty.
func field(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) handleSubscribe(c echo.Context) error {
	var req subscribeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		c.Logger().Errorf("subscribe: decode request: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{MsgUnexpected})
	}
	name, email := field(req.Name), field(req.Email)
	if name == "" || email == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{MsgMissingFields})
	}
	if !mailinglist.ValidEmail(email) {
		return c.JSON(http.StatusBadRequest, errorResponse{MsgInvalidEmail})
	}

	err := a.subscriber.Subscribe(c.Request().Context(), mailinglist.Subscriber{Name: name, Email: email})
	if err == nil {
		return c.JSON(http.StatusOK, messageResponse{MsgSubscribed})
	}

	var apiErr *mailinglist.APIError
	switch {
	case errors.Is(err, mailinglist.ErrNotConfigured):
		c.Logger().Errorf("subscribe: mailing list credentials not configured")
		return c.JSON(http.StatusInternalServerError, errorResponse{MsgConfigError})
	case errors.Is(err, mailinglist.ErrAlreadySubscribed):
		return c.JSON(http.StatusBadRequest, errorResponse{MsgAlreadySubscribed})
	case errors.As(err, &apiErr):
		c.Logger().Errorf("subscribe: %v", apiErr)
		msg := apiErr.Detail
		if msg == "" {
			msg = MsgSubscribeFailed
		}
		return c.JSON(apiErr.Status, errorResponse{msg})
	default:
		c.Logger().Errorf("subscribe: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{MsgUnexpected})
	}
}
