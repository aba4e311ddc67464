package services

import (
	"context"
	"sort"
	"strings"

	"qa-service/internal/models"
)

// memDB is the shared in-memory backing store for the repository fakes.
type memDB struct {
	nextID        uint
	users         map[uint]*models.User
	questions     map[uint]*models.Question
	answers       map[uint]*models.Answer
	votes         []*models.Vote
	notifications map[uint]*models.Notification
}

func newMemDB() *memDB {
	return &memDB{
		users:         make(map[uint]*models.User),
		questions:     make(map[uint]*models.Question),
		answers:       make(map[uint]*models.Answer),
		notifications: make(map[uint]*models.Notification),
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memDB) addUser(user models.User) *models.User {
	user.ID = db.id()
	db.users[user.ID] = &user
	return &user
}

func (db *memDB) addQuestion(question models.Question) *models.Question {
	question.ID = db.id()
	db.questions[question.ID] = &question
	return &question
}

func (db *memDB) addAnswer(answer models.Answer) *models.Answer {
	answer.ID = db.id()
	db.answers[answer.ID] = &answer
	if q := db.questions[answer.QuestionID]; q != nil {
		q.AnswerCount++
	}
	return &answer
}

type fakeUserRepo struct{ db *memDB }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.db.id()
	clone := *user
	f.db.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := f.db.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.db.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, user := range f.db.users {
		if user.Username == username || user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, userID uint, url string) error {
	if user, ok := f.db.users[userID]; ok {
		user.AvatarURL = url
	}
	return nil
}

type fakeQuestionRepo struct {
	db        *memDB
	lastQuery models.ListQuestionsQuery
}

func (f *fakeQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	question.ID = f.db.id()
	clone := *question
	f.db.questions[question.ID] = &clone
	return nil
}

func (f *fakeQuestionRepo) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	question, ok := f.db.questions[id]
	if !ok {
		return nil, nil
	}
	clone := *question
	if author, ok := f.db.users[question.AuthorID]; ok {
		clone.Author = *author
	}
	return &clone, nil
}

// List mirrors the SQL repository's semantics: case-insensitive substring
// search across title, description and tags, match-any tag filtering, the
// five sort orders and offset pagination.
func (f *fakeQuestionRepo) List(ctx context.Context, query models.ListQuestionsQuery) ([]models.Question, int64, error) {
	f.lastQuery = query
	out := make([]models.Question, 0, len(f.db.questions))
	for _, question := range f.db.questions {
		if !matchesQuery(question, query) {
			continue
		}
		out = append(out, *question)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		switch query.Sort {
		case models.QuestionSortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case models.QuestionSortMostAnswers:
			return a.AnswerCount > b.AnswerCount
		case models.QuestionSortMostViews:
			return a.ViewCount > b.ViewCount
		case models.QuestionSortBestVoted:
			return a.VoteScore() > b.VoteScore()
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	total := int64(len(out))
	if query.Page > 0 && query.Limit > 0 {
		start := (query.Page - 1) * query.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + query.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func matchesQuery(question *models.Question, query models.ListQuestionsQuery) bool {
	if query.AuthorID != nil && question.AuthorID != *query.AuthorID {
		return false
	}
	if query.Search != "" {
		needle := strings.ToLower(query.Search)
		hit := strings.Contains(strings.ToLower(question.Title), needle) ||
			strings.Contains(strings.ToLower(question.Description), needle)
		for _, tag := range question.Tags {
			hit = hit || strings.Contains(strings.ToLower(tag), needle)
		}
		if !hit {
			return false
		}
	}
	if len(query.Tags) > 0 {
		hit := false
		for _, want := range query.Tags {
			for _, tag := range question.Tags {
				if strings.EqualFold(tag, want) {
					hit = true
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (f *fakeQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	clone := *question
	f.db.questions[question.ID] = &clone
	return nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	delete(f.db.questions, id)
	for answerID, answer := range f.db.answers {
		if answer.QuestionID == id {
			delete(f.db.answers, answerID)
		}
	}
	kept := f.db.votes[:0]
	for _, vote := range f.db.votes {
		if vote.QuestionID != id {
			kept = append(kept, vote)
		}
	}
	f.db.votes = kept
	return nil
}

func (f *fakeQuestionRepo) IncrementViewCount(ctx context.Context, id uint) error {
	if question, ok := f.db.questions[id]; ok {
		question.ViewCount++
	}
	return nil
}

type fakeAnswerRepo struct{ db *memDB }

func (f *fakeAnswerRepo) Create(ctx context.Context, answer *models.Answer) error {
	answer.ID = f.db.id()
	clone := *answer
	f.db.answers[answer.ID] = &clone
	if question, ok := f.db.questions[answer.QuestionID]; ok {
		question.AnswerCount++
	}
	return nil
}

func (f *fakeAnswerRepo) FindByID(ctx context.Context, id uint) (*models.Answer, error) {
	answer, ok := f.db.answers[id]
	if !ok {
		return nil, nil
	}
	clone := *answer
	if author, ok := f.db.users[answer.AuthorID]; ok {
		clone.Author = *author
	}
	return &clone, nil
}

func (f *fakeAnswerRepo) ListByQuestion(ctx context.Context, questionID uint, sortBy string) ([]models.Answer, error) {
	out := make([]models.Answer, 0)
	for _, answer := range f.db.answers {
		if answer.QuestionID == questionID {
			out = append(out, *answer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAnswerRepo) Update(ctx context.Context, answer *models.Answer) error {
	clone := *answer
	f.db.answers[answer.ID] = &clone
	return nil
}

func (f *fakeAnswerRepo) Delete(ctx context.Context, answer *models.Answer) error {
	delete(f.db.answers, answer.ID)
	if question, ok := f.db.questions[answer.QuestionID]; ok {
		question.AnswerCount = models.ClampCounter(question.AnswerCount - 1)
		if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answer.ID {
			question.AcceptedAnswerID = nil
		}
	}
	kept := f.db.votes[:0]
	for _, vote := range f.db.votes {
		if vote.AnswerID == nil || *vote.AnswerID != answer.ID {
			kept = append(kept, vote)
		}
	}
	f.db.votes = kept
	return nil
}

func (f *fakeAnswerRepo) Accept(ctx context.Context, questionID, answerID uint) error {
	for _, answer := range f.db.answers {
		if answer.QuestionID == questionID {
			answer.IsAccepted = answer.ID == answerID
		}
	}
	if question, ok := f.db.questions[questionID]; ok {
		id := answerID
		question.AcceptedAnswerID = &id
	}
	return nil
}

func (f *fakeAnswerRepo) Unaccept(ctx context.Context, questionID, answerID uint) error {
	if answer, ok := f.db.answers[answerID]; ok {
		answer.IsAccepted = false
	}
	if question, ok := f.db.questions[questionID]; ok {
		question.AcceptedAnswerID = nil
	}
	return nil
}

// fakeVoteRepo applies vote plans to the in-memory store the way the real
// repository applies them in a transaction.
type fakeVoteRepo struct{ db *memDB }

func sameTarget(vote *models.Vote, userID, questionID uint, answerID *uint) bool {
	if vote.UserID != userID || vote.QuestionID != questionID {
		return false
	}
	if vote.AnswerID == nil || answerID == nil {
		return vote.AnswerID == nil && answerID == nil
	}
	return *vote.AnswerID == *answerID
}

func (f *fakeVoteRepo) Reconcile(ctx context.Context, userID, questionID uint, answerID *uint, direction models.VoteDirection) (models.VotePlan, error) {
	var existing *models.Vote
	for _, vote := range f.db.votes {
		if sameTarget(vote, userID, questionID, answerID) {
			existing = vote
			break
		}
	}

	plan := models.PlanVote(existing, direction)

	switch plan.Action {
	case models.VoteCreated:
		f.db.votes = append(f.db.votes, &models.Vote{
			UserID:     userID,
			QuestionID: questionID,
			AnswerID:   answerID,
			VoteType:   direction,
		})
	case models.VoteRemoved:
		kept := f.db.votes[:0]
		for _, vote := range f.db.votes {
			if vote != existing {
				kept = append(kept, vote)
			}
		}
		f.db.votes = kept
	case models.VoteSwitched:
		existing.VoteType = direction
	}

	if answerID == nil {
		if question, ok := f.db.questions[questionID]; ok {
			question.Upvotes = models.ClampCounter(question.Upvotes + plan.UpDelta)
			question.Downvotes = models.ClampCounter(question.Downvotes + plan.DownDelta)
		}
	} else {
		if answer, ok := f.db.answers[*answerID]; ok {
			answer.Upvotes = models.ClampCounter(answer.Upvotes + plan.UpDelta)
			answer.Downvotes = models.ClampCounter(answer.Downvotes + plan.DownDelta)
		}
	}
	return plan, nil
}

type fakeNotificationRepo struct{ db *memDB }

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = f.db.id()
	clone := *notification
	f.db.notifications[notification.ID] = &clone
	return nil
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	notification, ok := f.db.notifications[id]
	if !ok {
		return nil, nil
	}
	clone := *notification
	return &clone, nil
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	out := make([]models.Notification, 0)
	for _, notification := range f.db.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, *notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, notification := range f.db.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uint) error {
	if notification, ok := f.db.notifications[id]; ok {
		notification.IsRead = true
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID uint) error {
	for _, notification := range f.db.notifications {
		if notification.RecipientID == recipientID {
			notification.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id uint) error {
	delete(f.db.notifications, id)
	return nil
}

// recorder captures room and user broadcasts.
type broadcastRecord struct {
	Room  string
	ID    uint
	Event string
	Data  interface{}
}

type fakeBroadcaster struct {
	records []broadcastRecord
}

func (f *fakeBroadcaster) ToUser(userID uint, event string, data interface{}) {
	f.records = append(f.records, broadcastRecord{Room: "user", ID: userID, Event: event, Data: data})
}

func (f *fakeBroadcaster) ToQuestion(questionID uint, event string, data interface{}) {
	f.records = append(f.records, broadcastRecord{Room: "question", ID: questionID, Event: event, Data: data})
}

func (f *fakeBroadcaster) events(event string) []broadcastRecord {
	var out []broadcastRecord
	for _, record := range f.records {
		if record.Event == event {
			out = append(out, record)
		}
	}
	return out
}
