package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	errRatingMin   = errors.New("Rating must be at least 1")
	errRatingMax   = errors.New("Rating must be at most 5")
	errEndBefore   = errors.New("End date cannot be before start date")
	errRequired    = errors.New("Required")
	errInvalidDate = errors.New("Invalid date")
	errInvalidNum  = errors.New("Invalid number")
)

// ReviewFields are the optional inputs shared by the library forms.
type ReviewFields struct {
	StartDate *time.Time
	EndDate   *time.Time
	Rating    *int `validate:"omitempty,min=1,max=5"`
	Comment   *string
}

// LibraryForm is the "add to library" form of the game page.
type LibraryForm struct {
	ID       int64  `validate:"gt=0"`
	UserID   string `validate:"required"`
	Title    string `validate:"required"`
	ImageURL string
	ReviewFields
}

// EditForm is the "edit review" form of the library page.
type EditForm struct {
	ReviewID string `validate:"required"`
	GameID   string `validate:"required"`
	UserID   string `validate:"required"`
	Title    string `validate:"required"`
	ReviewFields
}

type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDates, ReviewFields{})
	return &formValidator{v: v}
}

func validateDates(sl validator.StructLevel) {
	f := sl.Current().Interface().(ReviewFields)
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		sl.ReportError(f.EndDate, "EndDate", "EndDate", "gtefield", "StartDate")
	}
}

// Check returns the first problem with the form as a user-facing message.
func (fv *formValidator) Check(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Rating" && fe.Tag() == "min":
		return errRatingMin
	case fe.Field() == "Rating" && fe.Tag() == "max":
		return errRatingMax
	case fe.Field() == "EndDate":
		return errEndBefore
	default:
		return fmt.Errorf("%s: %w", fe.Field(), errRequired)
	}
}

func parseLibraryForm(r *http.Request) (LibraryForm, error) {
	var f LibraryForm
	if err := r.ParseForm(); err != nil {
		return f, err
	}

	if raw := strings.TrimSpace(r.PostFormValue("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, errInvalidNum
		}
		f.ID = id
	}
	f.UserID = strings.TrimSpace(r.PostFormValue("userId"))
	f.Title = strings.TrimSpace(r.PostFormValue("title"))
	f.ImageURL = strings.TrimSpace(r.PostFormValue("imageUrl"))

	var err error
	f.ReviewFields, err = parseReviewFields(r)
	return f, err
}

func parseEditForm(r *http.Request) (EditForm, error) {
	var f EditForm
	if err := r.ParseForm(); err != nil {
		return f, err
	}

	f.ReviewID = strings.TrimSpace(r.PostFormValue("reviewId"))
	f.GameID = strings.TrimSpace(r.PostFormValue("gameId"))
	f.UserID = strings.TrimSpace(r.PostFormValue("userId"))
	f.Title = strings.TrimSpace(r.PostFormValue("title"))

	var err error
	f.ReviewFields, err = parseReviewFields(r)
	return f, err
}

// parseReviewFields reads the optional inputs. Empty inputs stay nil.
func parseReviewFields(r *http.Request) (ReviewFields, error) {
	var f ReviewFields
	var err error

	if f.StartDate, err = formDate(r.PostFormValue("startDate")); err != nil {
		return f, err
	}
	if f.EndDate, err = formDate(r.PostFormValue("endDate")); err != nil {
		return f, err
	}

	if raw := strings.TrimSpace(r.PostFormValue("rating")); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return f, errInvalidNum
		}
		f.Rating = &rating
	}

	if comment := r.PostFormValue("comment"); comment != "" {
		f.Comment = &comment
	}

	return f, nil
}

func formDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errInvalidDate
	}
	return &t, nil
}

func dateValue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
