package service

import (
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.Lesson{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.UserAnswer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newQuizEnv 准备一个带课时的测验服务，返回服务、DB 与课时 id
func newQuizEnv(t *testing.T) (*QuizService, *gorm.DB, uint) {
	t.Helper()

	db := newTestDB(t)

	module := &model.Module{Name: "Go 基础"}
	if err := db.Create(module).Error; err != nil {
		t.Fatalf("seed module: %v", err)
	}
	lesson := &model.Lesson{Topic: "并发入门", ModuleID: module.ID}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}

	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewUserAnswerRepository(db),
		repository.NewLessonRepository(db),
		nil,
	)
	return svc, db, lesson.ID
}

func boolPtr(b bool) *bool { return &b }

// 两题四选项：每题第一个选项为正确答案
func sampleQuizReq() QuizReq {
	return QuizReq{
		Title: "并发小测",
		Questions: []QuizQuestionReq{
			{
				Text: "goroutine 由谁调度？",
				Answers: []QuizAnswerReq{
					{Text: "Go 运行时", IsCorrect: boolPtr(true)},
					{Text: "操作系统内核", IsCorrect: boolPtr(false)},
				},
			},
			{
				Text: "channel 是否并发安全？",
				Answers: []QuizAnswerReq{
					{Text: "是", IsCorrect: boolPtr(true)},
					{Text: "否", IsCorrect: boolPtr(false)},
				},
			},
		},
	}
}

func TestReplaceQuizRoundTrip(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, err := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	if err != nil {
		t.Fatalf("ReplaceQuiz: %v", err)
	}

	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	if quiz.Title != "并发小测" {
		t.Fatalf("title = %q, want %q", quiz.Title, "并发小测")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(quiz.Questions))
	}
	if quiz.Questions[0].Text != "goroutine 由谁调度？" || quiz.Questions[1].Text != "channel 是否并发安全？" {
		t.Fatalf("question order not preserved: %q, %q", quiz.Questions[0].Text, quiz.Questions[1].Text)
	}
	for i, q := range quiz.Questions {
		if len(q.Answers) != 2 {
			t.Fatalf("question %d answers = %d, want 2", i, len(q.Answers))
		}
		if !q.Answers[0].IsCorrect || q.Answers[1].IsCorrect {
			t.Fatalf("question %d correctness flags not preserved", i)
		}
	}
}

func TestReplaceQuizOverwritesExisting(t *testing.T) {
	svc, db, lessonID := newQuizEnv(t)

	first, err := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	if err != nil {
		t.Fatalf("first ReplaceQuiz: %v", err)
	}

	second, err := svc.ReplaceQuiz(lessonID, QuizReq{
		Title: "新版小测",
		Questions: []QuizQuestionReq{
			{
				Text: "defer 的执行顺序？",
				Answers: []QuizAnswerReq{
					{Text: "后进先出", IsCorrect: boolPtr(true)},
					{Text: "先进先出", IsCorrect: boolPtr(false)},
					{Text: "随机", IsCorrect: boolPtr(false)},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("second ReplaceQuiz: %v", err)
	}

	if _, err := svc.GetQuiz(first.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("old quiz still readable, err = %v", err)
	}

	quiz, err := svc.GetQuiz(second.ID)
	if err != nil {
		t.Fatalf("GetQuiz new: %v", err)
	}
	if quiz.Title != "新版小测" || len(quiz.Questions) != 1 {
		t.Fatalf("new quiz content wrong: %q / %d questions", quiz.Title, len(quiz.Questions))
	}

	// 旧题目与选项不得残留
	var questionCount, answerCount int64
	db.Model(&model.Question{}).Count(&questionCount)
	db.Model(&model.Answer{}).Count(&answerCount)
	if questionCount != 1 || answerCount != 3 {
		t.Fatalf("orphan rows after replace: %d questions, %d answers", questionCount, answerCount)
	}
}

func TestReplaceQuizLessonNotFound(t *testing.T) {
	svc, _, _ := newQuizEnv(t)

	if _, err := svc.ReplaceQuiz(9999, sampleQuizReq()); !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("err = %v, want ErrLessonNotFound", err)
	}
}

func TestReplaceQuizRollbackKeepsOldQuiz(t *testing.T) {
	svc, db, lessonID := newQuizEnv(t)

	first, err := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	if err != nil {
		t.Fatalf("first ReplaceQuiz: %v", err)
	}

	// 注入建表失败：写入特定选项时报错，重建事务必须整体回滚
	const failText = "__fail__"
	err = db.Callback().Create().Before("gorm:create").Register("test_fail_create", func(tx *gorm.DB) {
		if a, ok := tx.Statement.Dest.(*model.Answer); ok && a.Text == failText {
			tx.AddError(errors.New("injected create failure"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = svc.ReplaceQuiz(lessonID, QuizReq{
		Title: "残缺小测",
		Questions: []QuizQuestionReq{
			{
				Text: "第一题",
				Answers: []QuizAnswerReq{
					{Text: "正常选项", IsCorrect: boolPtr(true)},
					{Text: failText, IsCorrect: boolPtr(false)},
				},
			},
		},
	})
	if err == nil {
		t.Fatal("ReplaceQuiz succeeded despite injected failure")
	}

	quiz, err := svc.GetQuiz(first.ID)
	if err != nil {
		t.Fatalf("old quiz lost after rollback: %v", err)
	}
	if quiz.Title != "并发小测" || len(quiz.Questions) != 2 {
		t.Fatalf("old quiz mutated after rollback: %q / %d questions", quiz.Title, len(quiz.Questions))
	}

	var quizCount int64
	db.Model(&model.Quiz{}).Count(&quizCount)
	if quizCount != 1 {
		t.Fatalf("quiz count = %d after rollback, want 1", quizCount)
	}
}

func TestSubmitAnswersFullScore(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, err := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	if err != nil {
		t.Fatalf("ReplaceQuiz: %v", err)
	}
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	selections := map[uint]uint{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID, // 正确
		quiz.Questions[1].ID: quiz.Questions[1].Answers[0].ID, // 正确
	}

	result, err := svc.SubmitAnswers(1, quiz.ID, selections)
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if result.Score != 2 || result.Total != 2 || result.Percentage != 100 {
		t.Fatalf("result = %+v, want {2 2 100}", result)
	}
}

func TestSubmitAnswersPartial(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	// 只答第一题且答错，缺答题按答错计
	selections := map[uint]uint{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[1].ID,
	}

	result, err := svc.SubmitAnswers(1, quiz.ID, selections)
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if result.Score != 0 || result.Total != 2 || result.Percentage != 0 {
		t.Fatalf("result = %+v, want {0 2 0}", result)
	}
}

func TestSubmitAnswersIdempotent(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	selections := map[uint]uint{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID,
		quiz.Questions[1].ID: quiz.Questions[1].Answers[1].ID,
	}

	first, err := svc.SubmitAnswers(7, quiz.ID, selections)
	if err != nil {
		t.Fatalf("first SubmitAnswers: %v", err)
	}
	second, err := svc.SubmitAnswers(7, quiz.ID, selections)
	if err != nil {
		t.Fatalf("second SubmitAnswers: %v", err)
	}

	if *first != *second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}

	allIDs := []uint{}
	for _, q := range quiz.Questions {
		for _, a := range q.Answers {
			allIDs = append(allIDs, a.ID)
		}
	}
	count, err := svc.UserAnswerRepo.CountByUserAndAnswers(7, allIDs)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("user_answers rows = %d after resubmit, want 2", count)
	}
}

func TestSubmitAnswersUnknownAnswerRollsBack(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	selections := map[uint]uint{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID,
		quiz.Questions[1].ID: 9999,
	}

	if _, err := svc.SubmitAnswers(3, quiz.ID, selections); !errors.Is(err, util.ErrAnswerNotFound) {
		t.Fatalf("err = %v, want ErrAnswerNotFound", err)
	}

	// 有效选择也不得落库
	count, err := svc.UserAnswerRepo.CountByUserAndAnswers(3, []uint{quiz.Questions[0].Answers[0].ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("user_answers rows = %d after rollback, want 0", count)
	}
}

func TestSubmitAnswersQuizNotFound(t *testing.T) {
	svc, _, _ := newQuizEnv(t)

	if _, err := svc.SubmitAnswers(1, 9999, nil); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitAnswersZeroQuestions(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, err := svc.ReplaceQuiz(lessonID, QuizReq{Title: "空测验"})
	if err != nil {
		t.Fatalf("ReplaceQuiz: %v", err)
	}

	result, err := svc.SubmitAnswers(1, created.ID, map[uint]uint{})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if result.Score != 0 || result.Total != 0 || result.Percentage != 0 {
		t.Fatalf("result = %+v, want {0 0 0}", result)
	}
}

func TestGetAttemptState(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	wrong := quiz.Questions[0].Answers[1].ID
	right := quiz.Questions[1].Answers[0].ID
	if _, err := svc.SubmitAnswers(5, quiz.ID, map[uint]uint{
		quiz.Questions[0].ID: wrong,
		quiz.Questions[1].ID: right,
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	state, err := svc.GetAttemptState(5, quiz)
	if err != nil {
		t.Fatalf("GetAttemptState: %v", err)
	}
	if !state.AlreadyTaken {
		t.Fatal("AlreadyTaken = false after submission")
	}
	if len(state.SelectedAnswerIDs) != 2 || state.SelectedAnswerIDs[0] != wrong || state.SelectedAnswerIDs[1] != right {
		t.Fatalf("SelectedAnswerIDs = %v, want [%d %d]", state.SelectedAnswerIDs, wrong, right)
	}
	if state.Score != 1 || state.Total != 2 || state.Percentage != 50 {
		t.Fatalf("state = %+v, want score 1/2 (50%%)", state)
	}
}

func TestGetAttemptStateSingleWrongSelection(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	wrong := quiz.Questions[0].Answers[1].ID
	if _, err := svc.SubmitAnswers(8, quiz.ID, map[uint]uint{quiz.Questions[0].ID: wrong}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	state, err := svc.GetAttemptState(8, quiz)
	if err != nil {
		t.Fatalf("GetAttemptState: %v", err)
	}
	if !state.AlreadyTaken {
		t.Fatal("AlreadyTaken = false after partial submission")
	}
	if len(state.SelectedAnswerIDs) != 1 || state.SelectedAnswerIDs[0] != wrong {
		t.Fatalf("SelectedAnswerIDs = %v, want [%d]", state.SelectedAnswerIDs, wrong)
	}
	if state.Score != 0 || state.Percentage != 0 {
		t.Fatalf("state = %+v, want zero score", state)
	}
}

func TestGetAttemptStateUntaken(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())
	quiz, err := svc.GetQuiz(created.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	state, err := svc.GetAttemptState(42, quiz)
	if err != nil {
		t.Fatalf("GetAttemptState: %v", err)
	}
	if state.AlreadyTaken || len(state.SelectedAnswerIDs) != 0 || state.Score != 0 {
		t.Fatalf("state = %+v, want untaken zero state", state)
	}
	if state.Total != 2 {
		t.Fatalf("Total = %d, want 2", state.Total)
	}
}

func TestDeleteQuiz(t *testing.T) {
	svc, _, lessonID := newQuizEnv(t)

	created, _ := svc.ReplaceQuiz(lessonID, sampleQuizReq())

	gotLessonID, err := svc.DeleteQuiz(created.ID)
	if err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if gotLessonID != lessonID {
		t.Fatalf("lessonID = %d, want %d", gotLessonID, lessonID)
	}

	if _, err := svc.GetQuiz(created.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("quiz still readable after delete, err = %v", err)
	}

	if _, err := svc.DeleteQuiz(created.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("repeated delete err = %v, want ErrQuizNotFound", err)
	}
}

func TestScorePercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{0, 2, 0},
		{1, 2, 50},
		{2, 2, 100},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, c := range cases {
		if got := scorePercentage(c.score, c.total); got != c.want {
			t.Errorf("scorePercentage(%d, %d) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}
