package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const (
	toastCookieName   = "playfolio_toast"
	DefaultToastTimer = 3000

	ToastSuccess = "success"
	ToastWarning = "warning"
	ToastDanger  = "danger"
)

// Toast is the single notification slot of a visitor. It travels in a flash
// cookie from the action that raised it to the next rendered page.
type Toast struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Timer     int    `json:"timer"`
	NoTimeout bool   `json:"noTimeout"`
	IssuedAt  int64  `json:"issuedAt"`
}

func NewToast(message, kind string, now time.Time) Toast {
	return Toast{
		Message:  message,
		Type:     kind,
		Timer:    DefaultToastTimer,
		IssuedAt: now.UnixMilli(),
	}
}

// VisibleAt reports whether the toast is still on screen at now.
func (t Toast) VisibleAt(now time.Time) bool {
	if t.Message == "" {
		return false
	}
	if t.NoTimeout {
		return true
	}
	timer := t.Timer
	if timer <= 0 {
		timer = DefaultToastTimer
	}
	return now.UnixMilli() < t.IssuedAt+int64(timer)
}

// Remaining is the display time left at now, in milliseconds.
func (t Toast) Remaining(now time.Time) int64 {
	left := t.IssuedAt + int64(t.Timer) - now.UnixMilli()
	if left < 0 {
		return 0
	}
	return left
}

func setToast(w http.ResponseWriter, t Toast) {
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeToast reads and clears the pending toast.
func takeToast(w http.ResponseWriter, r *http.Request) *Toast {
	c, err := r.Cookie(toastCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     toastCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var t Toast
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil
	}

	return &t
}
