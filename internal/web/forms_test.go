package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLibraryForm_Check(t *testing.T) {
	fv := newFormValidator()
	day := func(s string) *time.Time {
		d, _ := time.Parse(time.DateOnly, s)
		return &d
	}
	rating := func(v int) *int { return &v }

	valid := LibraryForm{ID: 123, UserID: "u1", Title: "Chrono Trigger"}
	assert.NoError(t, fv.Check(valid))

	f := valid
	f.Rating = rating(0)
	assert.ErrorIs(t, fv.Check(f), errRatingMin)

	f.Rating = rating(6)
	assert.ErrorIs(t, fv.Check(f), errRatingMax)

	f.Rating = rating(5)
	assert.NoError(t, fv.Check(f))

	f.StartDate, f.EndDate = day("2024-02-01"), day("2024-01-01")
	assert.ErrorIs(t, fv.Check(f), errEndBefore)

	f.EndDate = day("2024-02-01")
	assert.NoError(t, fv.Check(f))

	f = valid
	f.Title = ""
	assert.ErrorIs(t, fv.Check(f), errRequired)
}

func TestEditForm_Check(t *testing.T) {
	fv := newFormValidator()

	assert.NoError(t, fv.Check(EditForm{ReviewID: "r1", GameID: "g1", UserID: "u1", Title: "Okami"}))
	assert.ErrorIs(t, fv.Check(EditForm{GameID: "g1", UserID: "u1", Title: "Okami"}), errRequired)
}

func TestParseLibraryForm(t *testing.T) {
	f, err := parseLibraryForm(postForm(url.Values{
		"id":        {"123"},
		"title":     {"Chrono Trigger"},
		"startDate": {"2024-01-02"},
		"endDate":   {""},
		"rating":    {"4"},
		"comment":   {""},
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(123), f.ID)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, "2024-01-02", *dateValue(f.StartDate))
	assert.Nil(t, f.EndDate)
	require.NotNil(t, f.Rating)
	assert.Equal(t, 4, *f.Rating)
	assert.Nil(t, f.Comment)

	_, err = parseLibraryForm(postForm(url.Values{"id": {"1"}, "startDate": {"tomorrow"}}))
	assert.ErrorIs(t, err, errInvalidDate)

	_, err = parseLibraryForm(postForm(url.Values{"id": {"x"}}))
	assert.ErrorIs(t, err, errInvalidNum)
}
