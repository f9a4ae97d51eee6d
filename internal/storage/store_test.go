// ABOUTME: Tests for the snapshot-backed ledger store.
// ABOUTME: Covers identity, catalog CRUD, daily logs, entries, ordering, and read-repair.
package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/harperreed/calories/internal/models"
)

var epoch = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func frozenClock() func() time.Time {
	return func() time.Time { return epoch }
}

func setupTestStore(t *testing.T, clock func() time.Time) (*Store, *bytestore.Memory) {
	t.Helper()

	mem := bytestore.NewMemory()
	st := New(mem, WithLogger(log.New(io.Discard)), WithClock(clock))
	t.Cleanup(func() { _ = st.Close() })
	return st, mem
}

func mustUser(t *testing.T, st *Store, email string) *models.User {
	t.Helper()
	u, err := st.EnsureUser(email)
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	return u
}

func mustLog(t *testing.T, st *Store, userID, date string) *models.DailyLog {
	t.Helper()
	l, err := st.GetOrCreateDailyLog(userID, date)
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}
	return l
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())

	first := mustUser(t, st, "a@x.com")
	second := mustUser(t, st, "a@x.com")
	if first.ID != second.ID {
		t.Errorf("EnsureUser ID mismatch: got %s, want %s", second.ID, first.ID)
	}

	other := mustUser(t, st, "A@x.com")
	if other.ID == first.ID {
		t.Error("email matching should be case-sensitive")
	}

	snap, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Users) != 2 {
		t.Errorf("users count: got %d, want 2", len(snap.Users))
	}
}

func TestEnsureUserRejectsEmptyEmail(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())

	if _, err := st.EnsureUser(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("EnsureUser(\"\") error = %v, want ErrInvalidInput", err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	p, err := st.GetProfile(u.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil profile before upsert, got %+v", p)
	}
	if got := p.GoalOrDefault(); got != 2000 {
		t.Errorf("default goal: got %d, want 2000", got)
	}

	created, err := st.UpsertProfile(u.ID, 1800)
	if err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}
	updated, err := st.UpsertProfile(u.ID, 2200)
	if err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("profile ID changed on update: got %s, want %s", updated.ID, created.ID)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at did not advance: %v then %v", created.UpdatedAt, updated.UpdatedAt)
	}

	p, _ = st.GetProfile(u.ID)
	if p.DailyCalorieGoal != 2200 {
		t.Errorf("goal mismatch: got %d, want 2200", p.DailyCalorieGoal)
	}

	snap, _ := st.Load()
	if len(snap.Profiles) != 1 {
		t.Errorf("profiles count: got %d, want 1", len(snap.Profiles))
	}
}

func TestUpsertProfileRejectsNonPositiveGoal(t *testing.T) {
	st, mem := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	before := mem.Writes()

	for _, goal := range []int{0, -100} {
		if _, err := st.UpsertProfile(u.ID, goal); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("UpsertProfile(%d) error = %v, want ErrInvalidInput", goal, err)
		}
	}
	if mem.Writes() != before {
		t.Errorf("invalid goal wrote to the store: %d writes, want %d", mem.Writes(), before)
	}
}

func TestFoodCRUD(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	food, err := st.AddFood(u.ID, models.FoodInput{Name: "Apple", CaloriesPerServing: 95})
	if err != nil {
		t.Fatalf("AddFood failed: %v", err)
	}
	if food.ServingSize != "serving" || food.Category != "Breakfast" {
		t.Errorf("defaults not applied: serving=%q category=%q", food.ServingSize, food.Category)
	}

	name := "Green Apple"
	if err := st.UpdateFood(food.ID, models.FoodUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateFood failed: %v", err)
	}
	got, err := st.GetFood(food.ID)
	if err != nil {
		t.Fatalf("GetFood failed: %v", err)
	}
	if got.Name != "Green Apple" || got.CaloriesPerServing != 95 {
		t.Errorf("after update: got %+v", got)
	}

	if err := st.DeleteFood(food.ID); err != nil {
		t.Fatalf("DeleteFood failed: %v", err)
	}
	got, _ = st.GetFood(food.ID)
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestActivityCRUD(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	act, err := st.AddActivity(u.ID, models.ActivityInput{Name: "Running", CaloriesPerMinute: 11})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	rate := 12.5
	if err := st.UpdateActivity(act.ID, models.ActivityUpdate{CaloriesPerMinute: &rate}); err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}
	got, _ := st.GetActivity(act.ID)
	if got.CaloriesPerMinute != 12.5 || got.Name != "Running" {
		t.Errorf("after update: got %+v", got)
	}

	if err := st.DeleteActivity(act.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	list, _ := st.ListActivities(u.ID)
	if len(list) != 0 {
		t.Errorf("activities after delete: got %d, want 0", len(list))
	}
}

func TestUnknownIDUpdateAndDeleteAreNoOps(t *testing.T) {
	st, mem := setupTestStore(t, tickingClock())
	mustUser(t, st, "a@x.com")
	before := mem.Writes()

	name := "x"
	if err := st.UpdateFood("missing", models.FoodUpdate{Name: &name}); err != nil {
		t.Errorf("UpdateFood(missing) error = %v, want nil", err)
	}
	if err := st.DeleteFood("missing"); err != nil {
		t.Errorf("DeleteFood(missing) error = %v, want nil", err)
	}
	if err := st.UpdateActivity("missing", models.ActivityUpdate{Name: &name}); err != nil {
		t.Errorf("UpdateActivity(missing) error = %v, want nil", err)
	}
	if err := st.DeleteActivity("missing"); err != nil {
		t.Errorf("DeleteActivity(missing) error = %v, want nil", err)
	}
	if mem.Writes() != before {
		t.Errorf("no-op operations wrote: %d writes, want %d", mem.Writes(), before)
	}
}

func TestInvalidInputCausesNoWrite(t *testing.T) {
	st, mem := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	l := mustLog(t, st, u.ID, "2024-03-01")
	food, _ := st.AddFood(u.ID, models.FoodInput{Name: "Apple", CaloriesPerServing: 95})
	before := mem.Writes()

	neg := -1.0
	tests := []struct {
		name string
		run  func() error
	}{
		{"negative food calories", func() error {
			_, err := st.AddFood(u.ID, models.FoodInput{Name: "Bad", CaloriesPerServing: -5})
			return err
		}},
		{"negative activity rate", func() error {
			_, err := st.AddActivity(u.ID, models.ActivityInput{Name: "Bad", CaloriesPerMinute: -1})
			return err
		}},
		{"negative food update", func() error {
			return st.UpdateFood(food.ID, models.FoodUpdate{CaloriesPerServing: &neg})
		}},
		{"zero portions", func() error {
			_, err := st.AddFoodEntry(u.ID, l.ID, models.FoodEntryInput{FoodName: "Apple", Calories: 95, Portions: 0})
			return err
		}},
		{"negative entry calories", func() error {
			_, err := st.AddFoodEntry(u.ID, l.ID, models.FoodEntryInput{FoodName: "Apple", Calories: -1, Portions: 1})
			return err
		}},
		{"zero duration", func() error {
			_, err := st.AddActivityEntry(u.ID, l.ID, models.ActivityEntryInput{ActivityName: "Run", CaloriesBurned: 10})
			return err
		}},
		{"malformed date", func() error {
			_, err := st.GetOrCreateDailyLog(u.ID, "03/01/2024")
			return err
		}},
		{"non-canonical date", func() error {
			_, err := st.GetOrCreateDailyLog(u.ID, "2024-3-1")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if mem.Writes() != before {
		t.Errorf("invalid input wrote to the store: %d writes, want %d", mem.Writes(), before)
	}
	if got, _ := st.GetFood(food.ID); got.CaloriesPerServing != 95 {
		t.Errorf("food mutated by rejected update: %v", got.CaloriesPerServing)
	}
}

func TestGetOrCreateDailyLogIsLazyAndUnique(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	found, err := st.FindDailyLog(u.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("FindDailyLog failed: %v", err)
	}
	if found != nil {
		t.Fatalf("FindDailyLog created a log: %+v", found)
	}

	first := mustLog(t, st, u.ID, "2024-03-01")
	if first.TotalCaloriesConsumed != 0 || first.TotalCaloriesBurned != 0 {
		t.Errorf("new log totals not zero: %+v", first)
	}
	second := mustLog(t, st, u.ID, "2024-03-01")
	if first.ID != second.ID {
		t.Errorf("log ID mismatch: got %s, want %s", second.ID, first.ID)
	}

	mustLog(t, st, u.ID, "2024-03-02")
	other := mustUser(t, st, "b@x.com")
	mustLog(t, st, other.ID, "2024-03-01")

	logs, _ := st.ListDailyLogs(u.ID)
	if len(logs) != 2 {
		t.Fatalf("logs count: got %d, want 2", len(logs))
	}
	if logs[0].Date != "2024-03-02" {
		t.Errorf("history order: got %s first, want 2024-03-02", logs[0].Date)
	}
}

func TestConcurrentGetOrCreateDailyLogYieldsOneLog(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := st.GetOrCreateDailyLog(u.ID, "2024-03-01")
			if err != nil {
				t.Errorf("GetOrCreateDailyLog failed: %v", err)
				return
			}
			ids[i] = l.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("concurrent callers saw different logs: %v", ids)
		}
	}
}

func TestEntriesKeepAggregatesConsistent(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	l := mustLog(t, st, u.ID, "2024-03-01")

	foods := []float64{95, 190, 0, 450.5}
	burns := []float64{120, 33.3}
	for i := 0; i < len(foods) || i < len(burns); i++ {
		if i < len(foods) {
			if _, err := st.AddFoodEntry(u.ID, l.ID, models.FoodEntryInput{FoodName: "f", Calories: foods[i], Portions: 1, MealType: "Lunch"}); err != nil {
				t.Fatalf("AddFoodEntry failed: %v", err)
			}
		}
		if i < len(burns) {
			if _, err := st.AddActivityEntry(u.ID, l.ID, models.ActivityEntryInput{ActivityName: "a", CaloriesBurned: burns[i], DurationMinutes: 10}); err != nil {
				t.Fatalf("AddActivityEntry failed: %v", err)
			}
		}
	}

	got, _ := st.GetDailyLog(l.ID)
	fe, _ := st.ListFoodEntriesByLog(l.ID)
	ae, _ := st.ListActivityEntriesByLog(l.ID)

	var consumed, burned float64
	for _, e := range fe {
		consumed += e.Calories
	}
	for _, e := range ae {
		burned += e.CaloriesBurned
	}
	if got.TotalCaloriesConsumed != consumed {
		t.Errorf("consumed mismatch: got %v, want %v", got.TotalCaloriesConsumed, consumed)
	}
	if got.TotalCaloriesBurned != burned {
		t.Errorf("burned mismatch: got %v, want %v", got.TotalCaloriesBurned, burned)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at not bumped: created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestAddEntryUnknownLog(t *testing.T) {
	st, mem := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	before := mem.Writes()

	_, err := st.AddFoodEntry(u.ID, "nope", models.FoodEntryInput{FoodName: "f", Calories: 1, Portions: 1})
	if !errors.Is(err, ErrDailyLogNotFound) {
		t.Errorf("AddFoodEntry error = %v, want ErrDailyLogNotFound", err)
	}
	_, err = st.AddActivityEntry(u.ID, "nope", models.ActivityEntryInput{ActivityName: "a", CaloriesBurned: 1, DurationMinutes: 1})
	if !errors.Is(err, ErrDailyLogNotFound) {
		t.Errorf("AddActivityEntry error = %v, want ErrDailyLogNotFound", err)
	}
	if mem.Writes() != before {
		t.Errorf("unknown log wrote: %d writes, want %d", mem.Writes(), before)
	}
}

func TestEntrySnapshotSurvivesCatalogChanges(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	l := mustLog(t, st, u.ID, "2024-03-01")
	food, _ := st.AddFood(u.ID, models.FoodInput{Name: "Apple", CaloriesPerServing: 95})

	_, err := st.AddFoodEntry(u.ID, l.ID, models.FoodEntryInput{
		FoodID: &food.ID, FoodName: food.Name, Calories: 190, Portions: 2, MealType: "Snacks",
	})
	if err != nil {
		t.Fatalf("AddFoodEntry failed: %v", err)
	}

	name := "Pear"
	cal := 300.0
	_ = st.UpdateFood(food.ID, models.FoodUpdate{Name: &name, CaloriesPerServing: &cal})
	_ = st.DeleteFood(food.ID)

	entries, _ := st.ListFoodEntriesByLog(l.ID)
	if len(entries) != 1 {
		t.Fatalf("entries count: got %d, want 1", len(entries))
	}
	e := entries[0]
	if e.FoodName != "Apple" || e.Calories != 190 {
		t.Errorf("snapshot changed: name=%q calories=%v", e.FoodName, e.Calories)
	}
	if e.FoodID == nil || *e.FoodID != food.ID {
		t.Errorf("food_id changed: %v", e.FoodID)
	}
}

func TestCatalogOrderingNewestFirst(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")

	for _, n := range []string{"first", "second", "third"} {
		if _, err := st.AddFood(u.ID, models.FoodInput{Name: n, CaloriesPerServing: 1}); err != nil {
			t.Fatalf("AddFood failed: %v", err)
		}
	}
	other := mustUser(t, st, "b@x.com")
	_, _ = st.AddFood(other.ID, models.FoodInput{Name: "not mine", CaloriesPerServing: 1})

	foods, _ := st.ListFoods(u.ID)
	got := names(foods)
	if got != "third,second,first" {
		t.Errorf("food order: got %s, want third,second,first", got)
	}
}

func TestCatalogOrderingTiesPutLastInsertFirst(t *testing.T) {
	st, _ := setupTestStore(t, frozenClock())
	u := mustUser(t, st, "a@x.com")

	for _, n := range []string{"first", "second", "third"} {
		_, _ = st.AddFood(u.ID, models.FoodInput{Name: n, CaloriesPerServing: 1})
	}
	foods, _ := st.ListFoods(u.ID)
	if got := names(foods); got != "third,second,first" {
		t.Errorf("tied food order: got %s, want third,second,first", got)
	}
}

func TestEntryOrderingOldestFirst(t *testing.T) {
	st, _ := setupTestStore(t, frozenClock())
	u := mustUser(t, st, "a@x.com")
	l := mustLog(t, st, u.ID, "2024-03-01")

	for _, n := range []string{"one", "two", "three"} {
		_, _ = st.AddFoodEntry(u.ID, l.ID, models.FoodEntryInput{FoodName: n, Calories: 1, Portions: 1})
	}
	entries, _ := st.ListFoodEntriesByLog(l.ID)
	var got []string
	for _, e := range entries {
		got = append(got, e.FoodName)
	}
	if strings.Join(got, ",") != "one,two,three" {
		t.Errorf("entry order: got %v, want one,two,three", got)
	}
}

func TestCorruptPayloadIsRepaired(t *testing.T) {
	for _, payload := range []string{"not json", "", `{"users": 7}`} {
		t.Run(payload, func(t *testing.T) {
			mem := bytestore.NewMemory()
			_ = mem.Set(bytestore.SnapshotSlot, []byte(payload))
			st := New(mem, WithLogger(log.New(io.Discard)), WithClock(tickingClock()))

			foods, err := st.ListFoods("anyone")
			if err != nil {
				t.Fatalf("ListFoods failed: %v", err)
			}
			if len(foods) != 0 {
				t.Errorf("foods after repair: got %d, want 0", len(foods))
			}

			data, _ := mem.Get(bytestore.SnapshotSlot)
			snap, err := decodeSnapshot(data)
			if err != nil {
				t.Fatalf("repaired payload does not decode: %v", err)
			}
			for name, n := range snap.Counts() {
				if n != 0 {
					t.Errorf("%s count after repair: got %d, want 0", name, n)
				}
			}
		})
	}
}

func TestEmptyPayloadIsTreatedAsMissing(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	mem := bytestore.NewMemory()
	_ = mem.Set(bytestore.SnapshotSlot, []byte{})
	st := New(mem, WithLogger(logger), WithClock(tickingClock()))

	if _, err := st.ListFoods("anyone"); err != nil {
		t.Fatalf("ListFoods failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "no stored snapshot") {
		t.Errorf("expected the missing-snapshot message, got %q", out)
	}
	if strings.Contains(out, "unreadable") {
		t.Errorf("empty payload was reported as corrupt: %q", out)
	}

	data, _ := mem.Get(bytestore.SnapshotSlot)
	if _, err := decodeSnapshot(data); err != nil {
		t.Fatalf("empty slot was not reinitialized: %v", err)
	}
}

func TestMissingCollectionsGetDefaults(t *testing.T) {
	mem := bytestore.NewMemory()
	_ = mem.Set(bytestore.SnapshotSlot, []byte(`{"users":[{"id":"u1","email":"a@x.com"}]}`))
	st := New(mem, WithLogger(log.New(io.Discard)))

	u, err := st.EnsureUser("a@x.com")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("existing user not found: got %s, want u1", u.ID)
	}
	if _, err := st.AddFood(u.ID, models.FoodInput{Name: "Apple", CaloriesPerServing: 95}); err != nil {
		t.Fatalf("AddFood on partial payload failed: %v", err)
	}
}

func TestLegacyProfilesAreFolded(t *testing.T) {
	mem := bytestore.NewMemory()
	_ = mem.Set(bytestore.SnapshotSlot, []byte(`{
		"users":[{"id":"u1","email":"a@x.com"}],
		"users_profile":[{"id":"p1","user_id":"u1","daily_calorie_goal":1500}]
	}`))
	st := New(mem, WithLogger(log.New(io.Discard)))

	p, err := st.GetProfile("u1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p == nil || p.DailyCalorieGoal != 1500 {
		t.Errorf("legacy profile not folded: %+v", p)
	}
}

func TestStorageUnavailable(t *testing.T) {
	st, mem := setupTestStore(t, tickingClock())
	u := mustUser(t, st, "a@x.com")
	before, _ := mem.Get(bytestore.SnapshotSlot)

	mem.FailSets(true)
	if _, err := st.AddFood(u.ID, models.FoodInput{Name: "Apple", CaloriesPerServing: 95}); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("AddFood with failing Set: error = %v, want ErrStorageUnavailable", err)
	}
	mem.FailSets(false)

	after, _ := mem.Get(bytestore.SnapshotSlot)
	if string(before) != string(after) {
		t.Error("failed save changed the stored payload")
	}
	foods, _ := st.ListFoods(u.ID)
	if len(foods) != 0 {
		t.Errorf("failed add is visible: %d foods", len(foods))
	}

	mem.FailGets(true)
	if _, err := st.ListFoods(u.ID); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("ListFoods with failing Get: error = %v, want ErrStorageUnavailable", err)
	}
}

func TestSaveStampsRevision(t *testing.T) {
	st, _ := setupTestStore(t, tickingClock())
	mustUser(t, st, "a@x.com")
	first, _ := st.Load()
	mustUser(t, st, "b@x.com")
	second, _ := st.Load()

	if first.Revision == "" || first.Revision == second.Revision {
		t.Errorf("revision not refreshed: %q then %q", first.Revision, second.Revision)
	}
	if second.SchemaVersion != SchemaVersion {
		t.Errorf("schema version: got %d, want %d", second.SchemaVersion, SchemaVersion)
	}
}

func names(foods []*models.Food) string {
	var out []string
	for _, f := range foods {
		out = append(out, f.Name)
	}
	return strings.Join(out, ",")
}
