package handler

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"forumapi/internal/http/middleware"
	"forumapi/internal/model"
	"forumapi/internal/service"
)

// topicParams lists the permitted keys of a topic submission. Other keys are ignored.
type topicParams struct {
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Locked      *bool    `json:"locked"`
	Sticky      *bool    `json:"sticky"`
	CategoryIDs *[]int64 `json:"category_ids"`
}

type topicBody struct {
	Topic *topicParams `json:"topic"`
}

// noticeResponse replaces a redirect with a flash message.
type noticeResponse struct {
	Notice   string       `json:"notice"`
	Location string       `json:"location"`
	Topic    *model.Topic `json:"topic,omitempty"`
}

// currentPage reads ?page; anything missing, malformed or below 1 is page 1.
func currentPage(c *fiber.Ctx) int {
	p, err := strconv.Atoi(c.Query("page"))
	if err != nil || p < 1 {
		return 1
	}
	return min(p, service.MaxPage)
}

func topicsPath(messageboard string) string {
	return "/messageboards/" + url.PathEscape(messageboard) + "/topics"
}

func topicPath(messageboard, topic string) string {
	return topicsPath(messageboard) + "/" + url.PathEscape(topic)
}

// bindTopic parses {"topic": {...}}. A missing topic key is reported as PARAMETER_MISSING.
func bindTopic(c *fiber.Ctx) (*topicParams, error) {
	var body topicBody
	if len(c.Body()) == 0 {
		return nil, writeError(c, fiber.StatusBadRequest, "PARAMETER_MISSING", "param is missing or the value is empty: topic")
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "request body must be a JSON object")
	}
	if body.Topic == nil {
		return nil, writeError(c, fiber.StatusBadRequest, "PARAMETER_MISSING", "param is missing or the value is empty: topic")
	}
	return body.Topic, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ListTopics serves GET /messageboards/:messageboard_id/topics.
func ListTopics(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Index(c.UserContext(), middleware.CurrentUser(c), c.Params("messageboard_id"), currentPage(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CategoryTopics serves GET /messageboards/:messageboard_id/categories/:category_id.
func CategoryTopics(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Category(c.UserContext(), middleware.CurrentUser(c),
			c.Params("messageboard_id"), c.Params("category_id"), currentPage(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchTopics serves both the global and the messageboard-scoped search.
func SearchTopics(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Search(c.UserContext(), middleware.CurrentUser(c),
			c.Params("messageboard_id"), c.Query("q"), currentPage(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ShowTopic serves GET /messageboards/:messageboard_id/topics/:id.
func ShowTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Show(c.UserContext(), middleware.CurrentUser(c),
			c.Params("messageboard_id"), c.Params("id"), currentPage(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// NewTopic serves GET /messageboards/:messageboard_id/topics/new.
func NewTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.New(c.UserContext(), middleware.CurrentUser(c), c.Params("messageboard_id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateTopic serves POST /messageboards/:messageboard_id/topics.
func CreateTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := middleware.CurrentUser(c)
		if viewer == nil {
			return writeServiceError(c, service.ErrLoginRequired)
		}
		p, err := bindTopic(c)
		if p == nil {
			return err
		}
		in := service.CreateTopicInput{
			Title:       deref(p.Title),
			Content:     deref(p.Content),
			Locked:      deref(p.Locked),
			Sticky:      deref(p.Sticky),
			CategoryIDs: deref(p.CategoryIDs),
			IP:          c.IP(),
		}

		mb := c.Params("messageboard_id")
		topic, err := svc.Create(c.UserContext(), viewer, mb, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		loc := topicsPath(mb)
		c.Location(loc)
		return c.Status(fiber.StatusCreated).JSON(noticeResponse{Notice: "Topic created", Location: loc, Topic: topic})
	}
}

// EditTopic serves GET /messageboards/:messageboard_id/topics/:id/edit.
func EditTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Edit(c.UserContext(), middleware.CurrentUser(c), c.Params("messageboard_id"), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateTopic serves PATCH and PUT /messageboards/:messageboard_id/topics/:id.
func UpdateTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := middleware.CurrentUser(c)
		if viewer == nil {
			return writeServiceError(c, service.ErrLoginRequired)
		}
		p, err := bindTopic(c)
		if p == nil {
			return err
		}
		in := service.UpdateTopicInput{
			Title:         p.Title,
			Locked:        p.Locked,
			Sticky:        p.Sticky,
			CategoryIDs:   deref(p.CategoryIDs),
			SetCategories: p.CategoryIDs != nil,
		}

		mb := c.Params("messageboard_id")
		topic, err := svc.Update(c.UserContext(), viewer, mb, c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		loc := topicPath(mb, topic.Slug)
		c.Location(loc)
		return c.JSON(noticeResponse{Notice: "Topic updated", Location: loc, Topic: topic})
	}
}

// DestroyTopic serves DELETE /messageboards/:messageboard_id/topics/:id.
func DestroyTopic(svc service.TopicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mb := c.Params("messageboard_id")
		if err := svc.Destroy(c.UserContext(), middleware.CurrentUser(c), mb, c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		loc := topicsPath(mb)
		c.Location(loc)
		return c.JSON(noticeResponse{Notice: "Topic deleted", Location: loc})
	}
}
