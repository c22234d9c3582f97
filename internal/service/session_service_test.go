package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/quiz"
	"github.com/ronish76/elearn-backend/internal/service"
	"github.com/rs/zerolog"
)

/* ─── In-memory fakes satisfying service.QuestionStore & service.ResultStore ─── */

type fakeQuestionStore struct {
	bySubject map[string][]model.Question
	listErr   error
}

func (f *fakeQuestionStore) ListBySubject(_ context.Context, subject string) ([]model.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bySubject[subject], nil
}

func (f *fakeQuestionStore) ListSubjects(_ context.Context) ([]model.SubjectCount, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.SubjectCount
	for subject, qs := range f.bySubject {
		if len(qs) == 0 {
			// Mirrors the GROUP BY query: no rows, no subject.
			continue
		}
		out = append(out, model.SubjectCount{Subject: subject, QuestionCount: len(qs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

type answerKey struct {
	studentID  int
	questionID uuid.UUID
}

type completionKey struct {
	studentID int
	subject   string
}

type fakeResultStore struct {
	questions    *fakeQuestionStore
	answers      map[answerKey]model.AnswerRecord
	completions  map[completionKey]model.CompletionRecord
	writeErr     error
	answerWrites int
}

func newFakeResultStore(qs *fakeQuestionStore) *fakeResultStore {
	return &fakeResultStore{
		questions:   qs,
		answers:     map[answerKey]model.AnswerRecord{},
		completions: map[completionKey]model.CompletionRecord{},
	}
}

func (f *fakeResultStore) UpsertAnswer(_ context.Context, rec *model.AnswerRecord) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.answerWrites++
	f.answers[answerKey{rec.StudentID, rec.QuestionID}] = *rec
	return nil
}

func (f *fakeResultStore) UpsertCompletion(_ context.Context, rec *model.CompletionRecord) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.completions[completionKey{rec.StudentID, rec.Subject}] = *rec
	return nil
}

func (f *fakeResultStore) IsCompleted(_ context.Context, studentID int, subject string, totalQuestions int) (bool, error) {
	answered := 0
	for key := range f.answers {
		if key.studentID != studentID {
			continue
		}
		for _, q := range f.questions.bySubject[subject] {
			if q.ID == key.questionID {
				answered++
				break
			}
		}
	}
	return model.CompletionThresholdMet(answered, totalQuestions), nil
}

func (f *fakeResultStore) GetCompletion(_ context.Context, studentID int, subject string) (*model.CompletionRecord, error) {
	rec, ok := f.completions[completionKey{studentID, subject}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

/* ─── Helpers ─── */

// subjectQuestions builds n questions where OptionA always carries the
// correct text, so tests can answer "A" for correct and "B" for wrong.
func subjectQuestions(subject string, n int) []model.Question {
	qs := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, model.Question{
			ID:            uuid.New(),
			Subject:       subject,
			Text:          fmt.Sprintf("%s question %d", subject, i),
			OptionA:       fmt.Sprintf("correct %d", i),
			OptionB:       fmt.Sprintf("wrong %d", i),
			CorrectOption: fmt.Sprintf("correct %d", i),
		})
	}
	return qs
}

func newEngine(bySubject map[string][]model.Question) (*service.SessionService, *service.CatalogService, *fakeResultStore) {
	qs := &fakeQuestionStore{bySubject: bySubject}
	rs := newFakeResultStore(qs)
	log := zerolog.Nop()
	return service.NewSessionService(qs, rs, nil, log),
		service.NewCatalogService(qs, rs, log),
		rs
}

const studentID = 7

/* ─── Tests ─── */

func TestFinishFullAttempt(t *testing.T) {
	// Scenario: 5 questions, all answered, 4 correctly → score 4/5 and the
	// subject subsequently reads Completed in the catalog.
	ctx := context.Background()
	sessions, catalog, results := newEngine(map[string][]model.Question{
		"History": subjectQuestions("History", 5),
	})

	if _, err := sessions.Start(ctx, studentID, "History"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Answer position 0 wrong, the rest right.
	if err := sessions.RecordAnswer(studentID, 0, "B"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	for i := 1; i < 5; i++ {
		if err := sessions.RecordAnswer(studentID, i, "A"); err != nil {
			t.Fatalf("RecordAnswer(%d): %v", i, err)
		}
	}

	result, err := sessions.Finish(ctx, studentID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if result.Score != 4 || result.Total != 5 {
		t.Errorf("score = %d/%d, want 4/5", result.Score, result.Total)
	}
	if !result.Saved {
		t.Errorf("Saved = false, want true")
	}
	if len(results.answers) != 5 {
		t.Errorf("stored answer rows = %d, want 5", len(results.answers))
	}

	entries, err := catalog.ListAvailable(ctx, studentID)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != model.SubjectStatusCompleted {
		t.Errorf("catalog after full attempt = %+v, want History Completed", entries)
	}

	summary, err := catalog.ScoreSummary(ctx, studentID, "History")
	if err != nil {
		t.Fatalf("ScoreSummary: %v", err)
	}
	if summary.Correct != 4 || summary.Total != 5 || summary.Percentage != 80 {
		t.Errorf("summary = %+v, want 4/5 at 80%%", summary)
	}
}

func TestPartialAttemptBelowThreshold(t *testing.T) {
	// Scenario: 3 of 5 questions answered → 60% < 80%, not Completed.
	ctx := context.Background()
	sessions, catalog, _ := newEngine(map[string][]model.Question{
		"Math": subjectQuestions("Math", 5),
	})

	if _, err := sessions.Start(ctx, studentID, "Math"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := sessions.RecordAnswer(studentID, i, "A"); err != nil {
			t.Fatalf("RecordAnswer(%d): %v", i, err)
		}
	}

	result, err := sessions.Finish(ctx, studentID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if result.Score != 3 || result.Total != 5 {
		t.Errorf("score = %d/%d, want 3/5 (unanswered graded incorrect)", result.Score, result.Total)
	}

	entries, err := catalog.ListAvailable(ctx, studentID)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if entries[0].Status != model.SubjectStatusAvailable {
		t.Errorf("status = %s, want Available (3/5 answered)", entries[0].Status)
	}
}

func TestCompletionThresholdBoundary(t *testing.T) {
	// 4 of 5 answered is exactly 80% — boundary inclusive.
	ctx := context.Background()
	sessions, catalog, _ := newEngine(map[string][]model.Question{
		"Science": subjectQuestions("Science", 5),
	})

	if _, err := sessions.Start(ctx, studentID, "Science"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := sessions.RecordAnswer(studentID, i, "B"); err != nil {
			t.Fatalf("RecordAnswer(%d): %v", i, err)
		}
	}
	if _, err := sessions.Finish(ctx, studentID); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	entries, err := catalog.ListAvailable(ctx, studentID)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if entries[0].Status != model.SubjectStatusCompleted {
		t.Errorf("status = %s, want Completed (4/5 = 80%%, inclusive)", entries[0].Status)
	}
}

func TestReanswerLeavesOneRecord(t *testing.T) {
	// Scenario: answer, change mind, finish — grading uses the final choice
	// and exactly one record per question lands in the store.
	ctx := context.Background()
	sessions, _, results := newEngine(map[string][]model.Question{
		"Geo": subjectQuestions("Geo", 1),
	})

	if _, err := sessions.Start(ctx, studentID, "Geo"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sessions.RecordAnswer(studentID, 0, "B"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := sessions.RecordAnswer(studentID, 0, "A"); err != nil {
		t.Fatalf("re-RecordAnswer: %v", err)
	}

	result, err := sessions.Finish(ctx, studentID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("score = %d, want 1 (final answer only)", result.Score)
	}
	if len(results.answers) != 1 {
		t.Errorf("stored answer rows = %d, want 1", len(results.answers))
	}
	if results.answerWrites != 1 {
		t.Errorf("UpsertAnswer calls = %d, want 1 (changes collapse before persistence)", results.answerWrites)
	}
	for _, rec := range results.answers {
		if rec.SelectedOption != "A" {
			t.Errorf("stored option = %q, want %q (last write wins)", rec.SelectedOption, "A")
		}
	}
}

func TestStartEmptySubjectFails(t *testing.T) {
	// Scenario: zero questions → NoQuestionsAvailable, and the subject never
	// appears in the catalog.
	ctx := context.Background()
	sessions, catalog, _ := newEngine(map[string][]model.Question{
		"Empty": {},
		"Full":  subjectQuestions("Full", 2),
	})

	if _, err := sessions.Start(ctx, studentID, "Empty"); !errors.Is(err, quiz.ErrNoQuestions) {
		t.Errorf("Start(Empty): got %v, want ErrNoQuestions", err)
	}

	entries, err := catalog.ListAvailable(ctx, studentID)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(entries) != 1 || entries[0].Subject != "Full" {
		t.Errorf("catalog = %+v, want only Full", entries)
	}
}

func TestFinishSurvivesStorageFailure(t *testing.T) {
	// Grading happens before persistence; a failed save still shows the
	// score, flagged as unsaved.
	ctx := context.Background()
	sessions, _, results := newEngine(map[string][]model.Question{
		"History": subjectQuestions("History", 2),
	})
	results.writeErr = errors.New("connection refused")

	if _, err := sessions.Start(ctx, studentID, "History"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sessions.RecordAnswer(studentID, 0, "A"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	result, err := sessions.Finish(ctx, studentID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2 despite save failure", result.Score, result.Total)
	}
	if result.Saved {
		t.Errorf("Saved = true, want false when the store is down")
	}
}

func TestAbandonDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	sessions, _, results := newEngine(map[string][]model.Question{
		"History": subjectQuestions("History", 3),
	})

	if _, err := sessions.Start(ctx, studentID, "History"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sessions.RecordAnswer(studentID, 0, "A"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := sessions.Abandon(studentID); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	if len(results.answers) != 0 || len(results.completions) != 0 {
		t.Errorf("abandon persisted something: %d answers, %d completions",
			len(results.answers), len(results.completions))
	}
	if _, err := sessions.Snapshot(studentID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("Snapshot after abandon: got %v, want ErrNoActiveSession", err)
	}
}

func TestOperationsWithoutSession(t *testing.T) {
	ctx := context.Background()
	sessions, _, _ := newEngine(map[string][]model.Question{})

	if err := sessions.RecordAnswer(studentID, 0, "A"); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("RecordAnswer: got %v", err)
	}
	if err := sessions.Next(studentID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("Next: got %v", err)
	}
	if err := sessions.Previous(studentID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("Previous: got %v", err)
	}
	if _, err := sessions.Finish(ctx, studentID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("Finish: got %v", err)
	}
	if err := sessions.Abandon(studentID); !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("Abandon: got %v", err)
	}
}

func TestStartReplacesStaleSession(t *testing.T) {
	ctx := context.Background()
	sessions, _, _ := newEngine(map[string][]model.Question{
		"History": subjectQuestions("History", 2),
		"Math":    subjectQuestions("Math", 2),
	})

	if _, err := sessions.Start(ctx, studentID, "History"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sessions.RecordAnswer(studentID, 0, "A"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	snap, err := sessions.Start(ctx, studentID, "Math")
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if snap.Subject != "Math" {
		t.Errorf("live subject = %q, want Math", snap.Subject)
	}
	if snap.Answered != 0 {
		t.Errorf("answers carried across sessions: %d", snap.Answered)
	}
}

func TestSnapshotTracksNavigation(t *testing.T) {
	ctx := context.Background()
	sessions, _, _ := newEngine(map[string][]model.Question{
		"History": subjectQuestions("History", 3),
	})

	if _, err := sessions.Start(ctx, studentID, "History"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := sessions.Next(studentID); err != nil {
		t.Fatalf("Next: %v", err)
	}
	snap, err := sessions.Snapshot(studentID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Position != 1 {
		t.Errorf("position = %d, want 1", snap.Position)
	}
	if snap.Question == nil {
		t.Fatalf("snapshot missing current question")
	}

	// Clamped at both ends.
	for i := 0; i < 10; i++ {
		_ = sessions.Previous(studentID)
	}
	snap, _ = sessions.Snapshot(studentID)
	if snap.Position != 0 {
		t.Errorf("position after repeated Previous = %d, want 0", snap.Position)
	}
}
