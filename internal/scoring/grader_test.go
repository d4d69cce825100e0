package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store/fs"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) GetTime(task string, week int) (*float64, error) {
	args := m.Called(task, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockStore) PutTime(sub models.Submission) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockStore) GetFeedback(task string, week int) (*int, error) {
	args := m.Called(task, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockStore) PutFeedback(fb models.Feedback) error {
	args := m.Called(fb)
	return args.Error(0)
}

func testCourse() *models.Course {
	return &models.Course{
		Year:      2024,
		StartWeek: 15,
		Weeks:     6,
		Tasks: []models.Task{
			*timedTask(),
			{ID: "report", Report: true, MaxPoints: []int{2}, DueWeek: 6},
		},
	}
}

func TestGrader_Submit(t *testing.T) {
	t.Run("first submission is stored", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "is", 3).Return(nil, nil).Once()
		store.On("PutTime", models.Submission{Task: "is", Week: 3, Time: 1.2}).Return(nil).Once()

		outcome, err := NewGrader(testCourse(), store).Submit("is", 3, 1.2)
		require.NoError(t, err)
		assert.True(t, outcome.Accepted())
		assert.Equal(t, 4, outcome.Points)
		assert.Nil(t, outcome.Previous)
		store.AssertExpectations(t)
	})

	t.Run("faster time replaces the stored one", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "is", 3).Return(ptr(1.4), nil).Once()
		store.On("PutTime", models.Submission{Task: "is", Week: 3, Time: 0.9}).Return(nil).Once()

		outcome, err := NewGrader(testCourse(), store).Submit("is", 3, 0.9)
		require.NoError(t, err)
		assert.True(t, outcome.Accepted())
		assert.Equal(t, 5, outcome.Points)
		assert.Equal(t, 1.4, *outcome.Previous)
		store.AssertExpectations(t)
	})

	t.Run("slower time is rejected and the stored one kept", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "is", 3).Return(ptr(1.1), nil).Once()

		outcome, err := NewGrader(testCourse(), store).Submit("is", 3, 1.3)
		require.NoError(t, err)
		assert.Equal(t, NotBetter, outcome.Status)
		assert.Equal(t, 1.1, *outcome.Previous)
		store.AssertNotCalled(t, "PutTime", mock.Anything)
	})

	t.Run("equal time is not an improvement", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "is", 3).Return(ptr(1.1), nil).Once()

		outcome, err := NewGrader(testCourse(), store).Submit("is", 3, 1.1)
		require.NoError(t, err)
		assert.Equal(t, NotBetter, outcome.Status)
		store.AssertNotCalled(t, "PutTime", mock.Anything)
	})

	t.Run("report is accepted once per week", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "report", 2).Return(ptr(0.0), nil).Once()

		outcome, err := NewGrader(testCourse(), store).Submit("report", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, AlreadySubmitted, outcome.Status)
		store.AssertNotCalled(t, "PutTime", mock.Anything)
	})

	t.Run("contract violation never reaches the store", func(t *testing.T) {
		store := new(MockStore)

		_, err := NewGrader(testCourse(), store).Submit("is", 3, 0)
		assert.ErrorIs(t, err, ErrContract)
		store.AssertNotCalled(t, "GetTime", mock.Anything, mock.Anything)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := NewGrader(testCourse(), new(MockStore)).Submit("nope", 1, 1)
		assert.ErrorIs(t, err, ErrUnknownTask)
	})

	t.Run("week outside the course", func(t *testing.T) {
		_, err := NewGrader(testCourse(), new(MockStore)).Submit("is", 7, 1)
		assert.ErrorIs(t, err, ErrWeekOutOfRange)
	})

	t.Run("store errors are returned", func(t *testing.T) {
		store := new(MockStore)
		store.On("GetTime", "is", 1).Return(nil, errors.New("disk on fire")).Once()

		_, err := NewGrader(testCourse(), store).Submit("is", 1, 1)
		assert.ErrorContains(t, err, "disk on fire")
	})
}

func TestGrader_Result(t *testing.T) {
	store := new(MockStore)
	store.On("GetTime", "is", 5).Return(ptr(1.2), nil).Once()
	store.On("GetFeedback", "is", 5).Return(ptr(1), nil).Once()

	res, err := NewGrader(testCourse(), store).Result("is", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, *res.Automatic)
	assert.Equal(t, 3, *res.Final)
	store.AssertExpectations(t)
}

func TestGrader_WithFileStore(t *testing.T) {
	store, err := fs.NewFileStore(t.TempDir())
	require.NoError(t, err)
	grader := NewGrader(testCourse(), store)

	t.Run("report submitted twice keeps the first record", func(t *testing.T) {
		first, err := grader.Submit("report", 2, 0)
		require.NoError(t, err)
		assert.True(t, first.Accepted())
		assert.Equal(t, 2, first.Points)

		second, err := grader.Submit("report", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, AlreadySubmitted, second.Status)

		stored, err := store.GetTime("report", 2)
		require.NoError(t, err)
		assert.Equal(t, 0.0, *stored)

		summary, _, err := grader.Summary("report")
		require.NoError(t, err)
		assert.True(t, summary.Report)
	})

	t.Run("summary over several weeks", func(t *testing.T) {
		_, err := grader.Submit("is", 2, 1.4)
		require.NoError(t, err)
		_, err = grader.Submit("is", 5, 1.1)
		require.NoError(t, err)
		require.NoError(t, grader.SetFeedback("is", 2, 1))

		summary, results, err := grader.Summary("is")
		require.NoError(t, err)
		assert.Len(t, results, 6)

		// week 2: 4 automatic + 1 feedback; week 5 has no feedback yet
		assert.Equal(t, 5, summary.Best)
		assert.Equal(t, 5, summary.Max)
		assert.False(t, summary.Report)
		assert.Equal(t, 1.1, summary.BestTime)
		assert.Nil(t, results[4].Final)
		assert.Equal(t, 2, *results[4].Automatic)
	})
}
