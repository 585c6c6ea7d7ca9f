package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"forumapi/internal/cache"
	"forumapi/internal/model"
	"forumapi/internal/policy"
	"forumapi/internal/repository"
	"forumapi/internal/search"
	"forumapi/internal/slug"
)

// slugAttempts bounds the uniqueness lookups before falling back to a random suffix.
const slugAttempts = 20

var tracer = otel.Tracer("forumapi/internal/service")

// TopicView is a topic decorated for one viewer.
type TopicView struct {
	model.Topic
	Read         bool `json:"read"`
	LastReadPage int  `json:"last_read_page"`
}

// TopicListResult is returned by Index and Category.
type TopicListResult struct {
	Messageboard *model.Messageboard `json:"messageboard"`
	Category     *model.Category     `json:"category,omitempty"`
	Topics       []TopicView         `json:"topics"`
	Pagination   model.Pagination    `json:"pagination"`
	NewTopic     *TopicForm          `json:"new_topic,omitempty"`
}

// SearchResult is returned by Search. Messageboard is nil for a global search.
type SearchResult struct {
	Messageboard *model.Messageboard `json:"messageboard,omitempty"`
	Query        string              `json:"query"`
	Topics       []TopicView         `json:"topics"`
	Pagination   model.Pagination    `json:"pagination"`
}

// PostScaffold is the blank reply form offered on a topic page.
type PostScaffold struct {
	MessageboardID int64  `json:"messageboard_id"`
	TopicID        int64  `json:"topic_id"`
	Content        string `json:"content"`
}

// ShowResult is returned by Show.
type ShowResult struct {
	Messageboard *model.Messageboard `json:"messageboard"`
	Topic        TopicView           `json:"topic"`
	Posts        []model.Post        `json:"posts"`
	Pagination   model.Pagination    `json:"pagination"`
	NewPost      *PostScaffold       `json:"new_post,omitempty"`
}

// FormResult is returned by New and Edit.
type FormResult struct {
	Messageboard *model.Messageboard `json:"messageboard"`
	Topic        *model.Topic        `json:"topic,omitempty"`
	Form         *TopicForm          `json:"form"`
}

// TopicService defines the topic use cases. A nil viewer is a guest.
type TopicService interface {
	// Index lists the messageboard's topics sticky first, then most recently updated.
	Index(ctx context.Context, viewer *model.User, messageboardSlug string, page int) (*TopicListResult, error)

	// Show lists a topic's posts oldest first and marks the page read for signed-in viewers.
	Show(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, page int) (*ShowResult, error)

	// Search runs a query within a messageboard, or across all of them when messageboardSlug is empty.
	Search(ctx context.Context, viewer *model.User, messageboardSlug, query string, page int) (*SearchResult, error)

	// New returns a blank topic form.
	New(ctx context.Context, viewer *model.User, messageboardSlug string) (*FormResult, error)

	// Create starts a topic with its first post. Invalid input yields a *ValidationError.
	Create(ctx context.Context, viewer *model.User, messageboardSlug string, in CreateTopicInput) (*model.Topic, error)

	// Edit returns a topic with its form.
	Edit(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) (*FormResult, error)

	// Update saves a topic edit. Invalid input yields a *ValidationError.
	Update(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, in UpdateTopicInput) (*model.Topic, error)

	// Destroy deletes a topic.
	Destroy(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) error

	// Category lists the non-sticky topics of a category, most recently updated first.
	Category(ctx context.Context, viewer *model.User, messageboardSlug, categoryKey string, page int) (*TopicListResult, error)
}

// Options tunes page sizes.
type Options struct {
	TopicsPerPage int
	PostsPerPage  int
}

type topicService struct {
	boards     repository.MessageboardRepository
	topics     repository.TopicRepository
	posts      repository.PostRepository
	readStates repository.ReadStateRepository
	cache      cache.TopicListCache
	validate   *validator.Validate
	log        zerolog.Logger
	opts       Options
}

// NewTopicService constructs a TopicService. A nil cache disables list caching.
func NewTopicService(
	boards repository.MessageboardRepository,
	topics repository.TopicRepository,
	posts repository.PostRepository,
	readStates repository.ReadStateRepository,
	c cache.TopicListCache,
	log zerolog.Logger,
	opts Options,
) TopicService {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.TopicsPerPage <= 0 {
		opts.TopicsPerPage = 50
	}
	if opts.PostsPerPage <= 0 {
		opts.PostsPerPage = 25
	}
	return &topicService{
		boards:     boards,
		topics:     topics,
		posts:      posts,
		readStates: readStates,
		cache:      c,
		validate:   newValidator(),
		log:        log.With().Str("component", "topic_service").Logger(),
		opts:       opts,
	}
}

func startSpan(ctx context.Context, name string, viewer *model.User) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "TopicService."+name)
	if viewer != nil {
		span.SetAttributes(attribute.Int64("forum.viewer_id", viewer.ID))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// MaxPage is the highest page number served; later pages are empty anyway
// and larger values would overflow the offset.
const MaxPage = 1_000_000

func clampPage(page int) int {
	return min(max(page, 1), MaxPage)
}

func pageQuery(page, perPage int) repository.PageQuery {
	page = clampPage(page)
	return repository.PageQuery{Limit: perPage, Offset: (page - 1) * perPage}
}

func (s *topicService) messageboard(ctx context.Context, slugStr string) (*model.Messageboard, error) {
	mb, err := s.boards.FindBySlug(ctx, slugStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("messageboard %q: %w", slugStr, ErrNotFound)
		}
		return nil, fmt.Errorf("find messageboard: %w", err)
	}
	return mb, nil
}

func (s *topicService) topic(ctx context.Context, mb *model.Messageboard, slugStr string) (*model.Topic, error) {
	t, err := s.topics.FindBySlug(ctx, mb.ID, slugStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("topic %q: %w", slugStr, ErrNotFound)
		}
		return nil, fmt.Errorf("find topic: %w", err)
	}
	cats, err := s.boards.CategoriesForTopics(ctx, []int64{t.ID})
	if err != nil {
		return nil, fmt.Errorf("load topic categories: %w", err)
	}
	t.Categories = cats[t.ID]
	return t, nil
}

// decorate attaches categories and the viewer's read states.
func (s *topicService) decorate(ctx context.Context, viewer *model.User, topics []model.Topic) ([]TopicView, error) {
	views := make([]TopicView, len(topics))
	if len(topics) == 0 {
		return views, nil
	}
	ids := make([]int64, len(topics))
	for i := range topics {
		ids[i] = topics[i].ID
	}
	cats, err := s.boards.CategoriesForTopics(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	var states map[int64]model.UserTopicReadState
	if viewer != nil {
		states, err = s.readStates.ForTopics(ctx, viewer.ID, ids)
		if err != nil {
			return nil, fmt.Errorf("load read states: %w", err)
		}
	}
	for i := range topics {
		t := topics[i]
		if c, ok := cats[t.ID]; ok {
			t.Categories = c
		}
		views[i] = decorateOne(t, states)
	}
	return views, nil
}

func decorateOne(t model.Topic, states map[int64]model.UserTopicReadState) TopicView {
	v := TopicView{Topic: t}
	if st, ok := states[t.ID]; ok {
		v.Read = st.Covers(&t)
		v.LastReadPage = st.Page
	}
	return v
}

func (s *topicService) blankForm(ctx context.Context, viewer *model.User, mb *model.Messageboard) (*TopicForm, error) {
	cats, err := s.boards.ListCategories(ctx, mb.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &TopicForm{
		MessageboardID: mb.ID,
		CategoryIDs:    []int64{},
		CanModerate:    policy.CanModerate(viewer, mb),
		Categories:     cats,
	}, nil
}

func (s *topicService) listPage(ctx context.Context, mb *model.Messageboard, pq repository.PageQuery, page int) (*repository.PageResult[model.Topic], error) {
	log := s.log.With().Int64("messageboard_id", mb.ID).Int("page", page).Logger()
	if res, hit, err := s.cache.GetTopics(ctx, mb.ID, page, pq.Limit); err != nil {
		log.Warn().Err(err).Str("event", "cache_get").Str("status", "error").Send()
	} else if hit {
		return res, nil
	}
	res, err := s.topics.ListByMessageboard(ctx, mb.ID, pq)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if err := s.cache.SetTopics(ctx, mb.ID, page, pq.Limit, res); err != nil {
		log.Warn().Err(err).Str("event", "cache_set").Str("status", "error").Send()
	}
	return res, nil
}

func (s *topicService) invalidate(ctx context.Context, messageboardID int64) {
	if err := s.cache.Invalidate(ctx, messageboardID); err != nil {
		s.log.Warn().Err(err).Str("event", "cache_invalidate").Str("status", "error").
			Int64("messageboard_id", messageboardID).Send()
	}
}

// Index lists topics of a messageboard.
func (s *topicService) Index(ctx context.Context, viewer *model.User, messageboardSlug string, page int) (_ *TopicListResult, err error) {
	ctx, span := startSpan(ctx, "Index", viewer)
	defer func() { endSpan(span, err) }()

	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(viewer, mb) {
		return nil, ErrForbidden
	}
	page = clampPage(page)
	pq := pageQuery(page, s.opts.TopicsPerPage)
	res, err := s.listPage(ctx, mb, pq, page)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, viewer, res.Items)
	if err != nil {
		return nil, err
	}
	out := &TopicListResult{
		Messageboard: mb,
		Topics:       views,
		Pagination:   model.NewPagination(page, pq.Limit, res.Total),
	}
	if policy.CanCreateTopic(viewer, mb) {
		if out.NewTopic, err = s.blankForm(ctx, viewer, mb); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Category lists non-sticky topics of one category.
func (s *topicService) Category(ctx context.Context, viewer *model.User, messageboardSlug, categoryKey string, page int) (_ *TopicListResult, err error) {
	ctx, span := startSpan(ctx, "Category", viewer)
	defer func() { endSpan(span, err) }()

	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(viewer, mb) {
		return nil, ErrForbidden
	}
	cat, err := s.boards.FindCategory(ctx, mb.ID, categoryKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", categoryKey, ErrNotFound)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	page = clampPage(page)
	pq := pageQuery(page, s.opts.TopicsPerPage)
	res, err := s.topics.ListByCategory(ctx, cat.ID, pq)
	if err != nil {
		return nil, fmt.Errorf("list category topics: %w", err)
	}
	views, err := s.decorate(ctx, viewer, res.Items)
	if err != nil {
		return nil, err
	}
	return &TopicListResult{
		Messageboard: mb,
		Category:     cat,
		Topics:       views,
		Pagination:   model.NewPagination(page, pq.Limit, res.Total),
	}, nil
}

// Search runs a parsed query. An empty query matches nothing.
func (s *topicService) Search(ctx context.Context, viewer *model.User, messageboardSlug, query string, page int) (_ *SearchResult, err error) {
	ctx, span := startSpan(ctx, "Search", viewer)
	defer func() { endSpan(span, err) }()

	out := &SearchResult{Query: query, Topics: []TopicView{}}
	var crit repository.TopicSearch
	if messageboardSlug != "" {
		mb, err := s.messageboard(ctx, messageboardSlug)
		if err != nil {
			return nil, err
		}
		if !policy.CanRead(viewer, mb) {
			return nil, ErrForbidden
		}
		out.Messageboard = mb
		crit.MessageboardID = mb.ID
	}

	page = clampPage(page)
	pq := pageQuery(page, s.opts.TopicsPerPage)
	q := search.Parse(query)
	if q.Empty() {
		out.Pagination = model.NewPagination(page, pq.Limit, 0)
		return out, nil
	}
	crit.Text = q.Text
	crit.CategorySlugs = q.Categories
	crit.UserNames = q.Users

	res, err := s.topics.Search(ctx, crit, pq)
	if err != nil {
		return nil, fmt.Errorf("search topics: %w", err)
	}
	if out.Topics, err = s.decorate(ctx, viewer, res.Items); err != nil {
		return nil, err
	}
	out.Pagination = model.NewPagination(page, pq.Limit, res.Total)
	return out, nil
}

// Show lists posts and records how far the viewer has read.
func (s *topicService) Show(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, page int) (_ *ShowResult, err error) {
	ctx, span := startSpan(ctx, "Show", viewer)
	defer func() { endSpan(span, err) }()

	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	t, err := s.topic(ctx, mb, topicSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(viewer, mb) {
		return nil, ErrForbidden
	}

	page = clampPage(page)
	pq := pageQuery(page, s.opts.PostsPerPage)
	res, err := s.posts.ListByTopic(ctx, t.ID, pq)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var states map[int64]model.UserTopicReadState
	if viewer != nil {
		if n := len(res.Items); n > 0 {
			st := model.UserTopicReadState{
				UserID:  viewer.ID,
				TopicID: t.ID,
				ReadAt:  res.Items[n-1].UpdatedAt,
				Page:    page,
			}
			if err := s.readStates.Touch(ctx, st); err != nil {
				return nil, fmt.Errorf("touch read state: %w", err)
			}
		}
		if states, err = s.readStates.ForTopics(ctx, viewer.ID, []int64{t.ID}); err != nil {
			return nil, fmt.Errorf("load read states: %w", err)
		}
	}

	out := &ShowResult{
		Messageboard: mb,
		Topic:        decorateOne(*t, states),
		Posts:        res.Items,
		Pagination:   model.NewPagination(page, pq.Limit, res.Total),
	}
	if policy.CanPost(viewer, mb, t) {
		out.NewPost = &PostScaffold{MessageboardID: mb.ID, TopicID: t.ID}
	}
	return out, nil
}

// New returns a blank form for the messageboard.
func (s *topicService) New(ctx context.Context, viewer *model.User, messageboardSlug string) (_ *FormResult, err error) {
	ctx, span := startSpan(ctx, "New", viewer)
	defer func() { endSpan(span, err) }()

	if viewer == nil {
		return nil, ErrLoginRequired
	}
	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTopic(viewer, mb) {
		return nil, ErrForbidden
	}
	form, err := s.blankForm(ctx, viewer, mb)
	if err != nil {
		return nil, err
	}
	return &FormResult{Messageboard: mb, Form: form}, nil
}

// Create validates the form and persists the topic with its first post.
func (s *topicService) Create(ctx context.Context, viewer *model.User, messageboardSlug string, in CreateTopicInput) (_ *model.Topic, err error) {
	ctx, span := startSpan(ctx, "Create", viewer)
	defer func() { endSpan(span, err) }()

	if viewer == nil {
		return nil, ErrLoginRequired
	}
	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTopic(viewer, mb) {
		return nil, ErrForbidden
	}

	form, err := s.blankForm(ctx, viewer, mb)
	if err != nil {
		return nil, err
	}
	form.Title = strings.TrimSpace(in.Title)
	form.Content = strings.TrimSpace(in.Content)
	if form.CanModerate {
		form.Locked = in.Locked
		form.Sticky = in.Sticky
	}
	if in.CategoryIDs != nil {
		form.CategoryIDs = in.CategoryIDs
	}

	fields, err := fieldErrors(s.validate.Struct(createFields{Title: form.Title, Content: form.Content}))
	if err != nil {
		return nil, fmt.Errorf("validate topic: %w", err)
	}
	categoryIDs, fe := checkCategories(form.CategoryIDs, form.Categories)
	if fe != nil {
		fields = append(fields, *fe)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields, Form: form}
	}

	slugStr, err := s.uniqueSlug(ctx, mb.ID, form.Title, 0)
	if err != nil {
		return nil, err
	}
	uid := viewer.ID
	t := &model.Topic{
		MessageboardID: mb.ID,
		UserID:         &uid,
		LastUserID:     &uid,
		UserName:       viewer.Name,
		LastUserName:   viewer.Name,
		Title:          form.Title,
		Slug:           slugStr,
		Sticky:         form.Sticky,
		Locked:         form.Locked,
	}
	p := &model.Post{
		MessageboardID: mb.ID,
		UserID:         &uid,
		UserName:       viewer.Name,
		Content:        form.Content,
		IP:             in.IP,
	}
	if err := s.topics.Create(ctx, t, p, categoryIDs); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	s.invalidate(ctx, mb.ID)
	s.log.Info().Str("event", "topic_created").Int64("topic_id", t.ID).
		Int64("messageboard_id", mb.ID).Int64("user_id", uid).Send()
	return t, nil
}

// Edit returns the topic with a form prefilled from it.
func (s *topicService) Edit(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) (_ *FormResult, err error) {
	ctx, span := startSpan(ctx, "Edit", viewer)
	defer func() { endSpan(span, err) }()

	if viewer == nil {
		return nil, ErrLoginRequired
	}
	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	t, err := s.topic(ctx, mb, topicSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTopic(viewer, mb, t) {
		return nil, ErrForbidden
	}
	form, err := s.blankForm(ctx, viewer, mb)
	if err != nil {
		return nil, err
	}
	fillForm(form, t)
	return &FormResult{Messageboard: mb, Topic: t, Form: form}, nil
}

func fillForm(form *TopicForm, t *model.Topic) {
	form.TopicID = t.ID
	form.Title = t.Title
	form.Locked = t.Locked
	form.Sticky = t.Sticky
	form.CategoryIDs = t.CategoryIDs()
}

// Update applies the permitted fields and saves the topic.
func (s *topicService) Update(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string, in UpdateTopicInput) (_ *model.Topic, err error) {
	ctx, span := startSpan(ctx, "Update", viewer)
	defer func() { endSpan(span, err) }()

	if viewer == nil {
		return nil, ErrLoginRequired
	}
	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return nil, err
	}
	t, err := s.topic(ctx, mb, topicSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTopic(viewer, mb, t) {
		return nil, ErrForbidden
	}

	form, err := s.blankForm(ctx, viewer, mb)
	if err != nil {
		return nil, err
	}
	fillForm(form, t)
	if in.Title != nil {
		form.Title = strings.TrimSpace(*in.Title)
	}
	if form.CanModerate {
		if in.Locked != nil {
			form.Locked = *in.Locked
		}
		if in.Sticky != nil {
			form.Sticky = *in.Sticky
		}
	}
	if in.SetCategories {
		form.CategoryIDs = in.CategoryIDs
		if form.CategoryIDs == nil {
			form.CategoryIDs = []int64{}
		}
	}

	fields, err := fieldErrors(s.validate.Struct(updateFields{Title: form.Title}))
	if err != nil {
		return nil, fmt.Errorf("validate topic: %w", err)
	}
	var categoryIDs []int64
	if in.SetCategories {
		ids, fe := checkCategories(form.CategoryIDs, form.Categories)
		if fe != nil {
			fields = append(fields, *fe)
		}
		categoryIDs = ids
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields, Form: form}
	}

	if form.Title != t.Title {
		if t.Slug, err = s.uniqueSlug(ctx, mb.ID, form.Title, t.ID); err != nil {
			return nil, err
		}
	}
	uid := viewer.ID
	t.Title = form.Title
	t.Locked = form.Locked
	t.Sticky = form.Sticky
	t.LastUserID = &uid
	t.LastUserName = viewer.Name
	if err := s.topics.Update(ctx, t, categoryIDs); err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	if in.SetCategories {
		t.Categories = pickCategories(categoryIDs, form.Categories)
	}
	s.invalidate(ctx, mb.ID)
	return t, nil
}

// Destroy removes the topic.
func (s *topicService) Destroy(ctx context.Context, viewer *model.User, messageboardSlug, topicSlug string) (err error) {
	ctx, span := startSpan(ctx, "Destroy", viewer)
	defer func() { endSpan(span, err) }()

	if viewer == nil {
		return ErrLoginRequired
	}
	mb, err := s.messageboard(ctx, messageboardSlug)
	if err != nil {
		return err
	}
	t, err := s.topic(ctx, mb, topicSlug)
	if err != nil {
		return err
	}
	if !policy.CanDestroyTopic(viewer, mb, t) {
		return ErrForbidden
	}
	if err := s.topics.Delete(ctx, t); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	s.invalidate(ctx, mb.ID)
	s.log.Info().Str("event", "topic_deleted").Int64("topic_id", t.ID).
		Int64("messageboard_id", mb.ID).Int64("user_id", viewer.ID).Send()
	return nil
}

// uniqueSlug derives a slug from title that no other topic of the messageboard uses.
func (s *topicService) uniqueSlug(ctx context.Context, messageboardID int64, title string, exceptID int64) (string, error) {
	base := slug.Make(title)
	for _, candidate := range slug.Candidates(base, slugAttempts) {
		taken, err := s.topics.SlugExists(ctx, messageboardID, candidate, exceptID)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}
