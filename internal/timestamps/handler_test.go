package timestamps

import "testing"

func assertEqual(t *testing.T, expected, actual Timestamp) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

func TestIncrementFromSelf(t *testing.T) {
	handler := NewLamportTimestampHandler("A", 1)
	next := handler.IncrementTimestamp()
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 2}, next)
}

func TestUpdateFromOtherWithHigherTimestamp(t *testing.T) {
	handler := NewLamportTimestampHandler("A", 1)
	next := handler.UpdateTimestamp(Timestamp{Pid: "B", Seqnum: 2})
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 3}, next)
}

func TestUpdateFromOtherWithLowerTimestamp(t *testing.T) {
	handler := NewLamportTimestampHandler("A", 1)
	next := handler.UpdateTimestamp(Timestamp{Pid: "B", Seqnum: 0})
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 2}, next)
}

func TestUpdateFromOtherWithEqualTimestamp(t *testing.T) {
	handler := NewLamportTimestampHandler("A", 1)
	next := handler.UpdateTimestamp(Timestamp{Pid: "B", Seqnum: 1})
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 2}, next)
}

func TestMultipleUpdatesAndIncrements(t *testing.T) {
	handler := NewLamportTimestampHandler("A", 1)

	next := handler.UpdateTimestamp(Timestamp{Pid: "B", Seqnum: 0})
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 2}, next)

	next = handler.UpdateTimestamp(next)
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 3}, next)

	next = handler.IncrementTimestamp()
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 4}, next)

	next = handler.UpdateTimestamp(Timestamp{Pid: "B", Seqnum: 5})
	assertEqual(t, Timestamp{Pid: "A", Seqnum: 6}, next)
}

func TestCompareTimestamps(t *testing.T) {
	if !(Timestamp{1, "A"}).LessThan(Timestamp{1, "B"}) {
		t.Error("expected equal seqnum to break ties by pid")
	}
	if !(Timestamp{1, "A"}).LessThan(Timestamp{2, "A"}) {
		t.Error("expected smaller seqnum to sort first")
	}
	if (Timestamp{1, "A"}).LessThan(Timestamp{1, "A"}) {
		t.Error("expected equal timestamps to not be less than each other")
	}
}
