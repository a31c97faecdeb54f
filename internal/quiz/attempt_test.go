package quiz

import (
	"errors"
	"testing"

	"github.com/lumenlms/lumen-backend/internal/model"
)

func threeQuestionQuiz() model.QuizDefinition {
	return model.QuizDefinition{
		ID: "welcome-overview",
		Questions: []model.Question{
			{Prompt: "q0", Kind: model.KindSingleChoice, Options: []string{"a", "b", "c"}, CorrectIndex: 1},
			{Prompt: "q1", Kind: model.KindSingleChoice, Options: []string{"a", "b"}, CorrectIndex: 0},
			{Prompt: "q2", Kind: model.KindSingleChoice, Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3},
		},
	}
}

func startedAttempt(t *testing.T) *Attempt {
	t.Helper()
	a := NewAttempt(threeQuestionQuiz())
	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return a
}

func TestStartArmsCountdown(t *testing.T) {
	a := startedAttempt(t)

	st := a.State()
	if st.Phase != PhaseInProgress {
		t.Fatalf("expected in_progress, got %s", st.Phase)
	}
	if st.RemainingSeconds != TimeLimitSeconds {
		t.Fatalf("expected %d seconds, got %d", TimeLimitSeconds, st.RemainingSeconds)
	}
	if st.CurrentIndex != 0 {
		t.Fatalf("expected cursor at 0, got %d", st.CurrentIndex)
	}
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	a := NewAttempt(model.QuizDefinition{ID: "empty"})
	if err := a.Start(); !errors.Is(err, ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
}

func TestStartTwiceFails(t *testing.T) {
	a := startedAttempt(t)
	if err := a.Start(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("restart must fail, got %v", err)
	}
}

func TestSelectAnswerBounds(t *testing.T) {
	a := startedAttempt(t)

	if err := a.SelectAnswer(0, 1); err != nil {
		t.Fatalf("valid answer failed: %v", err)
	}
	// Overwrite is allowed.
	if err := a.SelectAnswer(0, 2); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if err := a.SelectAnswer(3, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("question index out of range must fail, got %v", err)
	}
	if err := a.SelectAnswer(-1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative question index must fail, got %v", err)
	}
	if err := a.SelectAnswer(1, 2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("option index out of range must fail, got %v", err)
	}
	if a.State().Answered != 1 {
		t.Fatalf("rejected answers must not count, got %d", a.State().Answered)
	}
}

func TestNavigationClampsAtEnds(t *testing.T) {
	a := startedAttempt(t)

	if err := a.Retreat(); err != nil {
		t.Fatalf("retreat failed: %v", err)
	}
	if got := a.State().CurrentIndex; got != 0 {
		t.Fatalf("retreat at start must clamp to 0, got %d", got)
	}

	for i := 0; i < 10; i++ {
		if err := a.Advance(); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	if got := a.State().CurrentIndex; got != 2 {
		t.Fatalf("advance past end must clamp to last index, got %d", got)
	}
}

func TestSubmitScoresGapsAsWrong(t *testing.T) {
	a := startedAttempt(t)

	// Answer two of three: one right, one wrong, one gap.
	if err := a.SelectAnswer(0, 1); err != nil { // correct
		t.Fatalf("answer failed: %v", err)
	}
	if err := a.SelectAnswer(1, 1); err != nil { // wrong
		t.Fatalf("answer failed: %v", err)
	}

	res, err := a.Submit()
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Score != 1 || res.TotalQuestions != 3 {
		t.Fatalf("expected 1/3, got %d/%d", res.Score, res.TotalQuestions)
	}
	if res.Percentage != 33 {
		t.Fatalf("expected 33%%, got %d%%", res.Percentage)
	}
	if res.Passed {
		t.Fatal("33% must not pass the gating threshold")
	}
	if a.State().Phase != PhaseSubmitted {
		t.Fatalf("expected submitted, got %s", a.State().Phase)
	}
}

func TestPassExactlyAtThreshold(t *testing.T) {
	def := model.QuizDefinition{
		ID: "t",
		Questions: []model.Question{
			{Options: []string{"a", "b"}, CorrectIndex: 0},
			{Options: []string{"a", "b"}, CorrectIndex: 0},
			{Options: []string{"a", "b"}, CorrectIndex: 0},
			{Options: []string{"a", "b"}, CorrectIndex: 0},
			{Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}
	a := NewAttempt(def)
	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := a.SelectAnswer(i, 0); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}

	res, err := a.Submit()
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Percentage != GatingThresholdPercent {
		t.Fatalf("expected %d%%, got %d%%", GatingThresholdPercent, res.Percentage)
	}
	if !res.Passed {
		t.Fatal("exactly the threshold must pass")
	}
}

func TestSubmitTwiceFails(t *testing.T) {
	a := startedAttempt(t)
	if _, err := a.Submit(); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := a.Submit(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("second submit must fail, got %v", err)
	}
}

func TestTimeoutScoresLikeManualSubmit(t *testing.T) {
	a := startedAttempt(t)
	if err := a.SelectAnswer(0, 1); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	var res *model.QuizResult
	for i := 0; i < TimeLimitSeconds; i++ {
		r, ended := a.Tick()
		if ended {
			res = r
			break
		}
	}
	if res == nil {
		t.Fatal("attempt never timed out")
	}
	if a.State().Phase != PhaseTimedOut {
		t.Fatalf("expected timed_out, got %s", a.State().Phase)
	}
	if a.State().RemainingSeconds != 0 {
		t.Fatalf("expected 0 remaining, got %d", a.State().RemainingSeconds)
	}
	// Same scoring as a manual submit of the same answers: 1/3.
	if res.Score != 1 || res.Percentage != 33 || res.Passed {
		t.Fatalf("unexpected timeout score: %+v", res)
	}

	// Ended attempts do not tick further.
	if _, ended := a.Tick(); ended {
		t.Fatal("ended attempt must not tick")
	}
}

func TestOperationsAfterEndFail(t *testing.T) {
	a := startedAttempt(t)
	if _, err := a.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := a.SelectAnswer(0, 0); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("answer after end must fail, got %v", err)
	}
	if err := a.Advance(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("navigate after end must fail, got %v", err)
	}
}

func TestCancelIsIdempotentAndFinal(t *testing.T) {
	a := startedAttempt(t)
	a.Cancel()
	a.Cancel()

	if a.State().Phase != PhaseClosed {
		t.Fatalf("expected closed, got %s", a.State().Phase)
	}
	if _, err := a.Submit(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("submit after cancel must fail, got %v", err)
	}
}

func TestAllAnswered(t *testing.T) {
	a := startedAttempt(t)
	if a.AllAnswered() {
		t.Fatal("fresh attempt cannot be all answered")
	}
	for i := 0; i < 3; i++ {
		if err := a.SelectAnswer(i, 0); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}
	if !a.AllAnswered() {
		t.Fatal("expected all answered")
	}
}
