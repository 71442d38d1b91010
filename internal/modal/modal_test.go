package modal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/loader"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/remote/remotetest"
	"github.com/rcliao/patchdash/internal/render"
	"github.com/rcliao/patchdash/internal/state"
)

type fixture struct {
	st     *state.Store
	fake   *remotetest.Fake
	notes  *annotations.SQLiteStore
	editor *PatchEditor
	chat   *ChatSession
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	notes, err := annotations.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { notes.Close() })

	st := state.New()
	fake := &remotetest.Fake{PatchesValue: []model.Patch{{ID: 1, Name: "Existing", Priority: 2}}}
	l := loader.New(fake, st, zap.NewNop(), nil)
	return &fixture{
		st:     st,
		fake:   fake,
		notes:  notes,
		editor: NewPatchEditor(st, fake, l, notes, WithAuthor("tester"), WithEditorLogger(zap.NewNop())),
		chat:   NewChatSession(st, fake, zap.NewNop(), nil),
	}
}

func TestOpenCreateClearsForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.editor.OpenEdit(ctx, model.Patch{ID: 1, Name: "Existing", Priority: 2}); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	f.editor.Close()

	if err := f.editor.OpenCreate(); err != nil {
		t.Fatalf("open create: %v", err)
	}
	if got := f.editor.Form(); got != (Form{}) {
		t.Errorf("expected empty form, got %+v", got)
	}
	snap := f.st.Snapshot()
	if !snap.CreatingPatch || snap.SelectedPatch != nil {
		t.Errorf("unexpected state: creating=%v selected=%v", snap.CreatingPatch, snap.SelectedPatch)
	}
	if f.editor.Mode() != EditorCreating {
		t.Errorf("expected creating mode, got %s", f.editor.Mode())
	}
}

func TestOpenEditDerivesUrgent(t *testing.T) {
	tests := []struct {
		priority int
		urgent   bool
	}{
		{priority: 5, urgent: true},
		{priority: 4, urgent: false},
		{priority: 1, urgent: false},
	}
	for _, tt := range tests {
		f := newFixture(t)
		p := model.Patch{ID: 7, Name: "P", Priority: tt.priority, Duration: 2, MinCrew: 1}
		if err := f.editor.OpenEdit(context.Background(), p); err != nil {
			t.Fatalf("open edit: %v", err)
		}
		form := f.editor.Form()
		if form.Urgent != tt.urgent {
			t.Errorf("priority %d: urgent = %v, want %v", tt.priority, form.Urgent, tt.urgent)
		}
		if form.Name != "P" || form.Duration != 2 {
			t.Errorf("form not populated: %+v", form)
		}
		snap := f.st.Snapshot()
		if snap.CreatingPatch || snap.SelectedPatch == nil || snap.SelectedPatch.ID != 7 {
			t.Errorf("unexpected state: %+v", snap)
		}
	}
}

func TestOnlyOneModal(t *testing.T) {
	f := newFixture(t)
	if err := f.chat.Open(); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	if err := f.editor.OpenCreate(); !errors.Is(err, state.ErrModalActive) {
		t.Errorf("expected ErrModalActive, got %v", err)
	}
	if f.editor.Mode() != EditorClosed {
		t.Error("editor should remain closed")
	}
}

func TestSubmitCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.editor.OpenCreate()
	f.editor.SetForm(Form{Name: " Breaker ", Duration: 1.5, Priority: 2, MinCrew: 2, Urgent: true})

	res, err := f.editor.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.fake.Created) != 1 {
		t.Fatalf("expected one create call, got %d", len(f.fake.Created))
	}
	in := f.fake.Created[0]
	if in.Priority != model.MaxPriority || in.Name != "Breaker" {
		t.Errorf("urgent create should carry priority 5 and trimmed name, got %+v", in)
	}
	if res.Mode != EditorCreating || res.Patch.Name != "Breaker" {
		t.Errorf("unexpected result: %+v", res)
	}

	snap := f.st.Snapshot()
	if len(snap.Patches) != 2 {
		t.Errorf("patches should be reloaded, got %d", len(snap.Patches))
	}
	if f.fake.Calls(remote.CallStats) != 1 {
		t.Error("stats should be reloaded after create")
	}
	if snap.ActiveModal != state.ModalNone || snap.CreatingPatch {
		t.Error("editor should close after a successful create")
	}
	if f.editor.Mode() != EditorClosed {
		t.Error("editor mode should be closed")
	}
}

func TestSubmitCreateFailureStaysOpen(t *testing.T) {
	f := newFixture(t)
	f.fake.Fail(remote.CallCreatePatch, &remote.APIError{Call: remote.CallCreatePatch, Status: 400, Message: "bad"})

	f.editor.OpenCreate()
	f.editor.SetForm(Form{Name: "X", Duration: 1, Priority: 3, MinCrew: 1})
	if _, err := f.editor.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if f.editor.Mode() != EditorCreating {
		t.Error("editor should stay open on failure")
	}
	if f.editor.Submitting() {
		t.Error("submitting flag should be cleared")
	}
	n, ok := f.st.Snapshot().LastNotice()
	if !ok || n.Level != state.LevelError {
		t.Errorf("expected error notice, got %+v", n)
	}
	if f.fake.Calls(remote.CallPatches) != 0 {
		t.Error("patches should not be reloaded after a failed create")
	}
}

func TestSubmitCreateInvalid(t *testing.T) {
	f := newFixture(t)
	f.editor.OpenCreate()
	f.editor.SetForm(Form{Name: "", Duration: 1, Priority: 3, MinCrew: 1})

	_, err := f.editor.Submit(context.Background())
	if !errors.Is(err, model.ErrInvalidPatch) {
		t.Fatalf("expected ErrInvalidPatch, got %v", err)
	}
	if f.fake.Calls(remote.CallCreatePatch) != 0 {
		t.Error("invalid form must not reach the service")
	}
	if f.editor.Mode() != EditorCreating {
		t.Error("editor should stay open")
	}
}

func TestSubmitEditAnnotatesLocally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := model.Patch{ID: 1, Name: "Existing", Priority: 2, Duration: 3, MinCrew: 1}

	f.editor.OpenEdit(ctx, p)
	form := f.editor.Form()
	form.Notes = "needs permit"
	form.Urgent = true
	form.Priority = 1
	f.editor.SetForm(form)

	res, err := f.editor.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Annotation == nil || res.Annotation.Notes != "needs permit" || !res.Annotation.Urgent || res.Annotation.Author != "tester" {
		t.Errorf("unexpected annotation: %+v", res.Annotation)
	}
	if f.fake.Calls(remote.CallCreatePatch) != 0 {
		t.Error("edit mode must not write remotely")
	}
	if f.st.Snapshot().SelectedPatch != nil {
		t.Error("selection should be cleared on close")
	}

	f.editor.OpenEdit(ctx, p)
	if got := f.editor.Form().Notes; got != "needs permit" {
		t.Errorf("reopened editor should show saved notes, got %q", got)
	}
}

func TestSubmitClosed(t *testing.T) {
	f := newFixture(t)
	if _, err := f.editor.Submit(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := f.editor.SetForm(Form{}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestChatSend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.ChatReply = remote.ChatReply{Success: true, Message: "Tuesday at 3am is best."}

	if _, _, err := f.chat.Send(ctx, "hi"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	f.chat.Open()

	for _, blank := range []string{"", "   ", "\n\t"} {
		_, ok, err := f.chat.Send(ctx, blank)
		if ok || err != nil {
			t.Errorf("blank %q: ok=%v err=%v", blank, ok, err)
		}
	}
	if len(f.chat.Messages()) != 0 || f.fake.Calls(remote.CallChat) != 0 {
		t.Fatal("blank messages must be a no-op")
	}

	reply, ok, err := f.chat.Send(ctx, "  when?  ")
	if err != nil || !ok {
		t.Fatalf("send: ok=%v err=%v", ok, err)
	}
	if reply.Text != "Tuesday at 3am is best." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	msgs := f.chat.Messages()
	if len(msgs) != 2 || msgs[0].Role != model.RoleUser || msgs[0].Text != "when?" || msgs[1].Pending {
		t.Errorf("unexpected history: %+v", msgs)
	}
	if f.fake.Sent[0] != "when?" {
		t.Errorf("expected trimmed message sent, got %q", f.fake.Sent[0])
	}
	if f.chat.Sending() {
		t.Error("send should be re-enabled")
	}
}

func TestChatFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		reply remote.ChatReply
		err   error
		want  string
	}{
		{name: "service fallback", reply: remote.ChatReply{Success: false, Fallback: "Try later."}, want: "Try later."},
		{name: "default fallback", reply: remote.ChatReply{Success: false}, want: FallbackReply},
		{name: "connection error", err: errors.New("dial tcp: refused"), want: ConnectionErrorReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.fake.ChatReply = tt.reply
			if tt.err != nil {
				f.fake.Fail(remote.CallChat, tt.err)
			}
			f.chat.Open()
			reply, _, err := f.chat.Send(context.Background(), "hello")
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			if reply.Text != tt.want {
				t.Errorf("reply = %q, want %q", reply.Text, tt.want)
			}
			if f.chat.Sending() {
				t.Error("send should be re-enabled")
			}
		})
	}
}

func TestChatSingleInFlight(t *testing.T) {
	f := newFixture(t)
	f.chat.Open()

	p, ok, err := f.chat.BeginSend("first")
	if err != nil || !ok {
		t.Fatalf("begin: ok=%v err=%v", ok, err)
	}
	if !f.chat.Sending() {
		t.Error("expected sending")
	}
	msgs := f.chat.Messages()
	if len(msgs) != 2 || !msgs[1].Pending {
		t.Errorf("expected pending placeholder, got %+v", msgs)
	}
	if _, _, err := f.chat.BeginSend("second"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("expected ErrSendInFlight, got %v", err)
	}

	f.chat.Close()
	f.chat.CompleteSend(p, remote.ChatReply{Success: true, Message: "done"}, nil)
	msgs = f.chat.Messages()
	if len(msgs) != 2 || msgs[1].Text != "done" || msgs[1].Pending {
		t.Errorf("reply should replace the placeholder even after close, got %+v", msgs)
	}
	if f.chat.Sending() {
		t.Error("send should be re-enabled")
	}
}

func TestRecommendationsViewer(t *testing.T) {
	st := state.New()
	v := NewRecommendationsViewer(st, nil)

	v.ShowSchedule(nil)
	if v.MultiStrategy() {
		t.Error("single schedule should not be multi-strategy")
	}
	if len(v.Render().Find(render.KindEmpty)) != 1 {
		t.Error("empty schedule should render the empty state")
	}

	v.ShowStrategies(map[string]model.Strategy{
		model.StrategyUrgencyFirst: {Label: "Urgency"},
		model.StrategyBalanced:     {Label: "Balanced"},
	}, 2)
	if keys := v.Keys(); len(keys) != 2 || keys[0] != model.StrategyUrgencyFirst {
		t.Errorf("unexpected keys: %v", keys)
	}
	if v.Focused() != model.StrategyUrgencyFirst {
		t.Errorf("unexpected focus: %s", v.Focused())
	}
	if v.FocusNext() != model.StrategyBalanced || v.FocusNext() != model.StrategyUrgencyFirst {
		t.Error("focus should cycle through strategies")
	}
	if !v.Toggle(model.StrategyBalanced) {
		t.Error("toggle should collapse")
	}
	if v.Toggle("missing") {
		t.Error("unknown key should not toggle")
	}
	secs := v.Render().Find(render.KindStrategy)
	if secs[1].Attr("collapsed") != "true" || secs[0].Attr("collapsed") == "true" {
		t.Error("only balanced should be collapsed")
	}
	if v.Toggle(model.StrategyBalanced) {
		t.Error("second toggle should expand")
	}

	st.OpenModal(state.ModalRecommendations)
	if !v.Close() || st.Snapshot().ActiveModal != state.ModalNone {
		t.Error("close should clear the active modal")
	}
}
