package chat

import (
	"context"
	"testing"
)

func TestStatsService_UsageCountsAssistantOnly(t *testing.T) {
	useStepClock(t)
	db := mustOpenDB(t)
	sessions := NewSessionService(db)
	messages := NewMessageService(db)
	stats := NewStatsService(db)
	ctx := context.Background()

	sess, err := sessions.Create(ctx, "t", nil)
	if err != nil {
		t.Fatal(err)
	}

	seed := []NewMessage{
		{SessionID: sess.ID, Content: "q1", Role: RoleUser},
		{SessionID: sess.ID, Content: "a1", Role: RoleAssistant, Model: strPtr("gpt-4"), TokenCount: intPtr(10)},
		{SessionID: sess.ID, Content: "q2", Role: RoleUser},
		{SessionID: sess.ID, Content: "a2", Role: RoleAssistant, Model: strPtr("gpt-4"), TokenCount: intPtr(25)},
		{SessionID: sess.ID, Content: "url", Role: RoleAssistant, Model: strPtr("dall-e-3"), ContentType: ContentTypeImage},
	}
	for _, m := range seed {
		if _, err := messages.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := stats.Usage(ctx, 0)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	// One day, two (model, content_type) groups.
	if len(rows) != 2 {
		t.Fatalf("len = %d; want 2: %+v", len(rows), rows)
	}

	byModel := map[string]*UsageStat{}
	for _, r := range rows {
		byModel[r.Model] = r
	}

	gpt := byModel["gpt-4"]
	if gpt == nil {
		t.Fatal("missing gpt-4 row")
	}
	if gpt.MessageCount != 2 {
		t.Errorf("gpt-4 MessageCount = %d; want 2 (user rows must not count)", gpt.MessageCount)
	}
	if gpt.TotalTokens != 35 {
		t.Errorf("gpt-4 TotalTokens = %d; want 35", gpt.TotalTokens)
	}
	if gpt.ContentType != ContentTypeText {
		t.Errorf("gpt-4 ContentType = %q", gpt.ContentType)
	}
	if gpt.Date != "2024-03-15" {
		t.Errorf("Date = %q; want 2024-03-15", gpt.Date)
	}

	dalle := byModel["dall-e-3"]
	if dalle == nil {
		t.Fatal("missing dall-e-3 row")
	}
	if dalle.ContentType != ContentTypeImage {
		t.Errorf("dall-e-3 ContentType = %q; want image", dalle.ContentType)
	}
	if dalle.TotalTokens != 0 {
		t.Errorf("dall-e-3 TotalTokens = %d; want 0 for token-less rows", dalle.TotalTokens)
	}
}

func TestStatsService_UsageEmpty(t *testing.T) {
	db := mustOpenDB(t)
	stats := NewStatsService(db)

	rows, err := stats.Usage(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("len = %d; want 0", len(rows))
	}
}

func TestStatsService_SessionTokenTotal(t *testing.T) {
	db := mustOpenDB(t)
	sessions := NewSessionService(db)
	messages := NewMessageService(db)
	stats := NewStatsService(db)
	ctx := context.Background()

	sess, err := sessions.Create(ctx, "t", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{7, 13} {
		if _, err := messages.Create(ctx, NewMessage{
			SessionID: sess.ID, Content: "m", Role: RoleAssistant, TokenCount: intPtr(n),
		}); err != nil {
			t.Fatal(err)
		}
	}
	// A token-less user message must not disturb the sum.
	if _, err := messages.Create(ctx, NewMessage{SessionID: sess.ID, Content: "q", Role: RoleUser}); err != nil {
		t.Fatal(err)
	}

	total, err := stats.SessionTokenTotal(ctx, sess.ID)
	if err != nil {
		t.Fatalf("SessionTokenTotal() error = %v", err)
	}
	if total != 20 {
		t.Errorf("total = %d; want 20", total)
	}
}
