package project_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ganot/knitpick/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func scarf() project.Project {
	return project.Project{
		ID:    "1",
		Name:  "Winter Scarf",
		Color: "#ff69b4",
		Counters: [project.CounterCount]project.Counter{
			{Label: "Rounds", Value: 0},
			{Label: "Needles", Value: 0},
		},
	}
}

func hat() project.Project {
	return project.Project{
		ID:    "2",
		Name:  "Bobble Hat",
		Color: "#ffb6c1",
		Counters: [project.CounterCount]project.Counter{
			{Label: "Rows", Value: 4},
			{Label: "Repeats", Value: 1},
		},
	}
}

func TestAdd_AppendsWithoutTouchingInput(t *testing.T) {
	list := []project.Project{scarf()}
	original := append([]project.Project(nil), list...)

	next := project.Add(list, hat())
	require.Equal(t, []project.Project{scarf(), hat()}, next)
	require.Equal(t, original, list)

	// writing through the result must not reach the input
	next[0].Name = "changed"
	require.Equal(t, "Winter Scarf", list[0].Name)
}

func TestUpdateCounter_ChangesOnlyTarget(t *testing.T) {
	list := []project.Project{scarf(), hat()}

	for idx := 0; idx < project.CounterCount; idx++ {
		for _, v := range []int{0, 1, 7, 1000} {
			next := project.UpdateCounter(list, "2", idx, v)

			require.Equal(t, v, next[1].Counters[idx].Value)
			want := hat()
			want.Counters[idx].Value = v
			require.Equal(t, want, next[1])
			require.Equal(t, scarf(), next[0])
			require.Equal(t, hat(), list[1], "input must stay unchanged")
		}
	}
}

func TestUpdateCounter_ClampsNegative(t *testing.T) {
	next := project.UpdateCounter([]project.Project{hat()}, "2", 0, -5)
	require.Equal(t, 0, next[0].Counters[0].Value)
}

func TestUpdateCounter_UnknownIDOrIndexIsNoop(t *testing.T) {
	list := []project.Project{scarf(), hat()}

	require.Equal(t, list, project.UpdateCounter(list, "missing", 0, 3))
	require.Equal(t, list, project.UpdateCounter(list, "1", 2, 3))
	require.Equal(t, list, project.UpdateCounter(list, "1", -1, 3))
}

func TestIncrementDecrementReset(t *testing.T) {
	list := []project.Project{hat()}

	list = project.Increment(list, "2", 0)
	require.Equal(t, 5, list[0].Counters[0].Value)

	list = project.Decrement(list, "2", 1)
	require.Equal(t, 0, list[0].Counters[1].Value)

	list = project.Reset(list, "2", 0)
	require.Equal(t, 0, list[0].Counters[0].Value)
}

func TestDecrement_NeverNegative(t *testing.T) {
	for start := 0; start < 5; start++ {
		p := scarf()
		p.Counters[0].Value = start
		list := []project.Project{p}
		for i := 0; i < 10; i++ {
			list = project.Decrement(list, "1", 0)
			require.GreaterOrEqual(t, list[0].Counters[0].Value, 0)
		}
		require.Equal(t, 0, list[0].Counters[0].Value)
	}
}

func TestAddThenDeleteRestoresList(t *testing.T) {
	before := []project.Project{scarf()}

	after := project.Delete(project.Add(before, hat()), "2")
	require.Equal(t, before, after)
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	list := []project.Project{scarf(), hat()}
	require.Equal(t, []project.Project{scarf(), hat()}, project.Delete(list, "missing"))
}

func TestDelete_KeepsOrder(t *testing.T) {
	third := scarf()
	third.ID = "3"
	list := []project.Project{scarf(), hat(), third}

	next := project.Delete(list, "2")
	require.Equal(t, []project.Project{scarf(), third}, next)
	require.Len(t, list, 3)
	require.Equal(t, hat(), list[1])
}

func TestFind(t *testing.T) {
	list := []project.Project{scarf(), hat()}

	p, ok := project.Find(list, "2")
	require.True(t, ok)
	require.Equal(t, hat(), p)

	_, ok = project.Find(list, "nope")
	require.False(t, ok)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	list := []project.Project{scarf(), hat()}

	data, err := json.Marshal(list)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"id":"1","name":"Winter Scarf","color":"#ff69b4","counters":[{"label":"Rounds","value":0},{"label":"Needles","value":0}]},
		{"id":"2","name":"Bobble Hat","color":"#ffb6c1","counters":[{"label":"Rows","value":4},{"label":"Repeats","value":1}]}
	]`, string(data))

	var decoded []project.Project
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, list, decoded)
}

func TestCounterDecodeClampsNegative(t *testing.T) {
	var decoded []project.Project
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"1","name":"Scarf","color":"#ff69b4",
		"counters":[{"label":"a","value":-5},{"label":"b","value":7}]}]`), &decoded))
	require.Equal(t, [project.CounterCount]project.Counter{
		{Label: "a", Value: 0},
		{Label: "b", Value: 7},
	}, decoded[0].Counters)

	var c project.Counter
	require.Error(t, json.Unmarshal([]byte(`{"label":"a","value":"x"}`), &c))
}

func TestIncrement_SaturatesAtMaxInt(t *testing.T) {
	list := project.UpdateCounter([]project.Project{scarf()}, "1", 0, math.MaxInt)

	next := project.Increment(list, "1", 0)
	require.Equal(t, math.MaxInt, next[0].Counters[0].Value)
}

func TestWinterScarfScenario(t *testing.T) {
	list := []project.Project{}

	list = project.Add(list, scarf())
	for i := 0; i < 3; i++ {
		p, _ := project.Find(list, "1")
		list = project.UpdateCounter(list, "1", 0, p.Counters[0].Value+1)
	}
	require.Equal(t, [project.CounterCount]project.Counter{
		{Label: "Rounds", Value: 3},
		{Label: "Needles", Value: 0},
	}, list[0].Counters)

	list = project.Reset(list, "1", 0)
	require.Equal(t, 0, list[0].Counters[0].Value)

	list = project.Delete(list, "1")
	require.Empty(t, list)
}
