package engine

import (
	"context"
	"testing"
	"time"

	"github.com/lawnchairsociety/questcore/internal/quest"
)

func dailyQuest(id int, flags quest.Flags, item int) *quest.Quest {
	return &quest.Quest{
		ID:          id,
		Name:        "Daily Chores",
		Flags:       quest.FlagDaily | flags,
		RepeatAfter: quest.RepeatImmediately,
		StartsAt:    mobGiver(3001),
		EndsAt:      mobGiver(3001),
		Tasks:       getObject(item, 1),
	}
}

func TestDailiesExpireAtReset(t *testing.T) {
	env := newTestEnv(t)
	daily := env.addQuest(dailyQuest(300, 0, 510))
	plain := env.addQuest(fetchQuest())
	ch := newFakeChar(1)
	env.online(ch)

	if err := env.e.StartQuest(ch, daily, 0); err != nil {
		t.Fatalf("StartQuest(daily) returned error: %v", err)
	}
	if err := env.e.StartQuest(ch, plain, 0); err != nil {
		t.Fatalf("StartQuest(plain) returned error: %v", err)
	}

	if err := env.e.Tick(testStart.Add(time.Hour)); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if !ch.log.IsOnQuest(300) {
		t.Fatal("daily should survive until the reset")
	}

	env.now = testStart.Add(24 * time.Hour)
	if err := env.e.Tick(env.now); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if ch.log.IsOnQuest(300) {
		t.Error("daily tracker should expire at the reset")
	}
	if !ch.log.IsOnQuest(100) {
		t.Error("non-daily tracker must not expire")
	}
	if got := ch.lastMessage(); got != "Your daily quests expire." {
		t.Errorf("last message = %q", got)
	}
}

func TestOfflineDailiesExpireOnRefresh(t *testing.T) {
	env := newTestEnv(t)
	daily := env.addQuest(dailyQuest(300, 0, 510))
	ch := newFakeChar(1)

	if err := env.e.StartQuest(ch, daily, 0); err != nil {
		t.Fatalf("StartQuest returned error: %v", err)
	}
	env.now = testStart.Add(25 * time.Hour)
	if err := env.e.Tick(env.now); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if !ch.log.IsOnQuest(300) {
		t.Fatal("offline players are not touched by Tick")
	}

	env.e.RefreshCharacter(ch)
	if ch.log.IsOnQuest(300) {
		t.Error("daily from the previous window should expire on login")
	}
	if !ch.log.DailyWindow.Equal(env.e.Clock().LastReset()) {
		t.Errorf("DailyWindow = %v, want %v", ch.log.DailyWindow, env.e.Clock().LastReset())
	}

	if err := env.e.StartQuest(ch, daily, 0); err != nil {
		t.Fatalf("StartQuest in the new window returned error: %v", err)
	}
	env.e.RefreshAllQuests(ch)
	if !ch.log.IsOnQuest(300) {
		t.Error("daily started in the current window must be kept")
	}
}

func TestFinishedDailyTurnsInAfterRotation(t *testing.T) {
	env := newTestEnv(t)
	mob := env.world.spawn(quest.GiverMobile, 3001)
	a := dailyQuest(600, 0, 510)
	a.DailyCycle = 1
	b := dailyQuest(601, 0, 510)
	b.DailyCycle = 1
	env.addQuest(a)
	env.addQuest(b)
	if err := env.e.SetupDailyCycles(); err != nil {
		t.Fatalf("SetupDailyCycles returned error: %v", err)
	}

	active, _ := env.e.content.Dailies.Active(1)
	q, _ := env.e.content.Quests.Get(active)
	ch := newFakeChar(1)
	ch.objects[510] = 1
	if err := env.e.StartQuest(ch, q, 0); err != nil {
		t.Fatalf("StartQuest returned error: %v", err)
	}

	for i := 0; i < 64; i++ {
		if id, _ := env.e.content.Dailies.Active(1); id != active {
			break
		}
		if err := env.e.RotateDailyCycles(1); err != nil {
			t.Fatalf("RotateDailyCycles returned error: %v", err)
		}
	}
	if id, _ := env.e.content.Dailies.Active(1); id == active {
		t.Fatal("rotation never moved off the started quest")
	}

	if !env.e.CanTurnQuestInToMob(ch, mob) {
		t.Error("a finished daily should be accepted after its cycle moves on")
	}
	if !env.e.CanGetQuestFromMob(newFakeChar(2), mob) {
		t.Error("the newly active daily should still be offered")
	}
	if err := env.e.CompleteQuest(context.Background(), ch, active); err != nil {
		t.Errorf("CompleteQuest returned error: %v", err)
	}
}

func TestDailyQuotaExpiresRemainingDailies(t *testing.T) {
	env := newTestEnv(t)
	env.e.cfg.DailiesPerDay = 1
	first := env.addQuest(dailyQuest(300, 0, 510))
	second := env.addQuest(dailyQuest(301, 0, 511))
	event := env.addQuest(dailyQuest(302, quest.FlagEvent, 512))
	plain := env.addQuest(fetchQuest())
	ch := newFakeChar(1)
	ch.objects[510] = 1

	for _, q := range []*quest.Quest{first, second, event, plain} {
		if err := env.e.StartQuest(ch, q, 0); err != nil {
			t.Fatalf("StartQuest(%d) returned error: %v", q.ID, err)
		}
	}
	if err := env.e.CompleteQuest(context.Background(), ch, 300); err != nil {
		t.Fatalf("CompleteQuest returned error: %v", err)
	}

	if ch.log.IsOnQuest(301) {
		t.Error("remaining non-event daily should expire at the quota")
	}
	if !ch.log.IsOnQuest(302) {
		t.Error("event dailies have their own quota")
	}
	if !ch.log.IsOnQuest(100) {
		t.Error("non-daily quests are unaffected")
	}
	if got := ch.lastMessage(); got != "You have hit the daily quest limit and your remaining daily quests expire." {
		t.Errorf("last message = %q", got)
	}
}

func TestEventDailyQuotaIsSeparate(t *testing.T) {
	env := newTestEnv(t)
	env.e.cfg.DailiesPerDay = 1
	daily := env.addQuest(dailyQuest(300, 0, 510))
	other := env.addQuest(dailyQuest(301, 0, 511))
	event := env.addQuest(dailyQuest(302, quest.FlagEvent, 512))
	ch := newFakeChar(1)
	ch.objects[510] = 1
	ch.objects[512] = 1

	if err := env.e.StartQuest(ch, daily, 0); err != nil {
		t.Fatalf("StartQuest returned error: %v", err)
	}
	if err := env.e.CompleteQuest(context.Background(), ch, 300); err != nil {
		t.Fatalf("CompleteQuest returned error: %v", err)
	}
	if env.e.CharMeetsPrereqs(ch, other, 0) {
		t.Error("non-event quota reached: other dailies should be refused")
	}
	if !env.e.CharMeetsPrereqs(ch, event, 0) {
		t.Error("event dailies should not count against the non-event quota")
	}

	if err := env.e.StartQuest(ch, event, 0); err != nil {
		t.Fatalf("StartQuest(event) returned error: %v", err)
	}
	if err := env.e.CompleteQuest(context.Background(), ch, 302); err != nil {
		t.Fatalf("CompleteQuest(event) returned error: %v", err)
	}
	if ch.log.DailiesDone != 1 || ch.log.EventDailiesDone != 1 {
		t.Errorf("counts = %d non-event, %d event; want 1 and 1", ch.log.DailiesDone, ch.log.EventDailiesDone)
	}
	if env.e.CharMeetsPrereqs(ch, event, 0) {
		t.Error("event quota reached: event daily should be refused")
	}
}

func TestDailyCompletionUsesResetTime(t *testing.T) {
	env := newTestEnv(t)
	q := dailyQuest(300, 0, 510)
	q.RepeatAfter = 24 * 60
	env.addQuest(q)
	ch := newFakeChar(1)
	ch.objects[510] = 1

	if err := env.e.StartQuest(ch, q, 0); err != nil {
		t.Fatalf("StartQuest returned error: %v", err)
	}
	if err := env.e.CompleteQuest(context.Background(), ch, 300); err != nil {
		t.Fatalf("CompleteQuest returned error: %v", err)
	}
	rec, ok := ch.log.Completion(300)
	if !ok {
		t.Fatal("no completion record")
	}
	if !rec.LastCompleted.Equal(env.e.Clock().LastReset()) {
		t.Errorf("LastCompleted = %v, want the daily reset %v", rec.LastCompleted, env.e.Clock().LastReset())
	}

	env.now = env.e.Clock().NextReset().Add(-time.Minute)
	if env.e.CharMeetsPrereqs(ch, q, 0) {
		t.Error("daily should stay locked until the next reset")
	}
	env.now = env.e.Clock().NextReset().Add(time.Minute)
	if err := env.e.Tick(env.now); err != nil {
		t.Fatalf("Tick returned error: %v", err)
	}
	if !env.e.CharMeetsPrereqs(ch, q, 0) {
		t.Error("a one-day repeat delay should open at the next reset")
	}
}
