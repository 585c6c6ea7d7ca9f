package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"forumapi/internal/model"
)

// TopicForm is the editable shape of a topic. It is returned blank by New,
// filled by Edit, and echoed back on validation failures.
type TopicForm struct {
	MessageboardID int64            `json:"messageboard_id"`
	TopicID        int64            `json:"topic_id,omitempty"`
	Title          string           `json:"title"`
	Content        string           `json:"content,omitempty"`
	Locked         bool             `json:"locked"`
	Sticky         bool             `json:"sticky"`
	CategoryIDs    []int64          `json:"category_ids"`
	CanModerate    bool             `json:"can_moderate"`
	Categories     []model.Category `json:"available_categories"`
}

// CreateTopicInput carries the permitted fields of a new topic.
type CreateTopicInput struct {
	Title       string
	Content     string
	Locked      bool
	Sticky      bool
	CategoryIDs []int64
	IP          string
}

// UpdateTopicInput carries the permitted fields of a topic edit. Nil fields are left unchanged.
type UpdateTopicInput struct {
	Title       *string
	Locked      *bool
	Sticky      *bool
	CategoryIDs []int64
	// SetCategories distinguishes an explicit empty list from an absent one.
	SetCategories bool
}

type createFields struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required,max=65535"`
}

type updateFields struct {
	Title string `json:"title" validate:"required,max=255"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts validator output into FieldErrors. Other errors are returned as is.
func fieldErrors(err error) ([]FieldError, error) {
	if err == nil {
		return nil, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Error: message(fe)})
	}
	return out, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	default:
		return "is invalid"
	}
}

// checkCategories collapses duplicate ids and rejects ids outside available.
func checkCategories(ids []int64, available []model.Category) ([]int64, *FieldError) {
	known := make(map[int64]struct{}, len(available))
	for _, c := range available {
		known[c.ID] = struct{}{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, &FieldError{Field: "category_ids", Error: fmt.Sprintf("contains unknown category %d", id)}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// pickCategories returns the categories named by ids, in ids order.
func pickCategories(ids []int64, available []model.Category) []model.Category {
	byID := make(map[int64]model.Category, len(available))
	for _, c := range available {
		byID[c.ID] = c
	}
	out := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
