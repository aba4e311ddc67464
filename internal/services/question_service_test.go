package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-service/internal/models"
)

func TestCreateQuestionNormalizesTags(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	question, err := svc.Create(ctx, author, &models.CreateQuestionRequest{
		Title:       "  How do I profile memory allocations?  ",
		Description: "Looking for the standard tooling around heap profiles.",
		Tags:        []string{" Go ", "PROFILING", "go", "pprof"},
	})
	require.NoError(t, err)
	assert.Equal(t, "How do I profile memory allocations?", question.Title)
	assert.Equal(t, []string{"go", "profiling", "pprof"}, question.Tags)
}

func TestCreateQuestionRejectsBadTags(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	cases := [][]string{
		{"   "},
		{"this-tag-is-way-too-long-to-pass"},
		{},
	}
	for _, tags := range cases {
		_, err := svc.Create(ctx, author, &models.CreateQuestionRequest{
			Title:       "A perfectly reasonable title",
			Description: "A perfectly reasonable description too.",
			Tags:        tags,
		})
		assert.ErrorIs(t, err, ErrInvalidTag, "tags %v", tags)
	}
}

func TestGetCountsView(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	question := db.addQuestion(models.Question{Title: "Views should add up", AuthorID: author.ID})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	got, err := svc.Get(ctx, question.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, err = svc.Get(ctx, question.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	_, err = svc.Get(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestListNormalizesQuery(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	repo := &fakeQuestionRepo{db: db}
	svc := NewQuestionService(repo)

	_, _, err := svc.List(ctx, models.ListQuestionsQuery{
		Page:  0,
		Limit: 500,
		Sort:  "sneaky; DROP TABLE questions",
		Tags:  []string{" Go ", "REDIS"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lastQuery.Page)
	assert.Equal(t, maxPageLimit, repo.lastQuery.Limit)
	assert.Equal(t, models.QuestionSortNewest, repo.lastQuery.Sort)
	assert.Equal(t, []string{"go", "redis"}, repo.lastQuery.Tags)

	_, _, err = svc.List(ctx, models.ListQuestionsQuery{Sort: models.QuestionSortBestVoted})
	require.NoError(t, err)
	assert.Equal(t, defaultQuestionLimit, repo.lastQuery.Limit)
	assert.Equal(t, models.QuestionSortBestVoted, repo.lastQuery.Sort)
}

func TestListSearchMatchesTitleDescriptionAndTags(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	db.addQuestion(models.Question{
		Title:       "Optimizing SQL joins for reporting",
		Description: "The report query takes minutes.",
		Tags:        []string{"postgres"},
		AuthorID:    author.ID,
	})
	db.addQuestion(models.Question{
		Title:       "Index selection surprises",
		Description: "Why does PostgreSQL pick a sequential scan here?",
		Tags:        []string{"performance"},
		AuthorID:    author.ID,
	})
	db.addQuestion(models.Question{
		Title:       "Replication lag on reads",
		Description: "Replicas fall behind under load.",
		Tags:        []string{"mysql"},
		AuthorID:    author.ID,
	})
	db.addQuestion(models.Question{
		Title:       "Tracking down goroutine leaks",
		Description: "Profiles show climbing goroutine counts.",
		Tags:        []string{"go"},
		AuthorID:    author.ID,
	})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	got, page, err := svc.List(ctx, models.ListQuestionsQuery{Search: "sql"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	titles := make([]string, 0, len(got))
	for _, question := range got {
		titles = append(titles, question.Title)
	}
	assert.Contains(t, titles, "Optimizing SQL joins for reporting")
	assert.Contains(t, titles, "Index selection surprises")
	assert.Contains(t, titles, "Replication lag on reads")
	assert.NotContains(t, titles, "Tracking down goroutine leaks")
}

func TestListTagFilterMatchesAny(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	db.addQuestion(models.Question{Title: "Channel buffering patterns", Tags: []string{"go"}, AuthorID: author.ID})
	db.addQuestion(models.Question{Title: "Cache eviction policies", Tags: []string{"redis", "caching"}, AuthorID: author.ID})
	db.addQuestion(models.Question{Title: "Decorators demystified", Tags: []string{"python"}, AuthorID: author.ID})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	got, page, err := svc.List(ctx, models.ListQuestionsQuery{Tags: []string{"GO", "redis"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, question := range got {
		assert.NotEqual(t, "Decorators demystified", question.Title)
	}
}

func TestListBestVotedOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	db.addQuestion(models.Question{Title: "Middling question about locks", Upvotes: 5, Downvotes: 3, AuthorID: author.ID})
	db.addQuestion(models.Question{Title: "A beloved question on slices", Upvotes: 10, Downvotes: 1, AuthorID: author.ID})
	db.addQuestion(models.Question{Title: "A downvoted question on globals", Upvotes: 1, Downvotes: 4, AuthorID: author.ID})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	got, page, err := svc.List(ctx, models.ListQuestionsQuery{Sort: models.QuestionSortBestVoted, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, got, 2)
	assert.Equal(t, "A beloved question on slices", got[0].Title)
	assert.Equal(t, "Middling question about locks", got[1].Title)

	got, _, err = svc.List(ctx, models.ListQuestionsQuery{Sort: models.QuestionSortBestVoted, Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A downvoted question on globals", got[0].Title)
}

func TestUpdateQuestionOwnership(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	stranger := db.addUser(models.User{Username: "stranger"})
	admin := db.addUser(models.User{Username: "admin", Role: models.RoleAdmin})
	question := db.addQuestion(models.Question{Title: "The original title here", AuthorID: author.ID})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	newTitle := "An updated title for clarity"
	_, err := svc.Update(ctx, stranger, question.ID, &models.UpdateQuestionRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "The original title here", db.questions[question.ID].Title)

	updated, err := svc.Update(ctx, author, question.ID, &models.UpdateQuestionRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	adminTitle := "An admin can edit as well"
	_, err = svc.Update(ctx, admin, question.ID, &models.UpdateQuestionRequest{Title: &adminTitle})
	require.NoError(t, err)
	assert.Equal(t, adminTitle, db.questions[question.ID].Title)
}

func TestDeleteQuestionCascades(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	author := db.addUser(models.User{Username: "asker"})
	stranger := db.addUser(models.User{Username: "stranger"})
	question := db.addQuestion(models.Question{Title: "Delete me and my answers", AuthorID: author.ID})
	answer := db.addAnswer(models.Answer{QuestionID: question.ID, AuthorID: stranger.ID, Content: "Collateral damage."})
	db.votes = append(db.votes, &models.Vote{UserID: stranger.ID, QuestionID: question.ID, VoteType: models.VoteUp})
	svc := NewQuestionService(&fakeQuestionRepo{db: db})

	err := svc.Delete(ctx, stranger, question.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, author, question.ID))
	assert.NotContains(t, db.questions, question.ID)
	assert.NotContains(t, db.answers, answer.ID)
	assert.Empty(t, db.votes)
}
