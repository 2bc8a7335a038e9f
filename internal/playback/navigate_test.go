package playback

import (
	"testing"

	"github.com/jmorand/stratus/internal/catalog"
)

func navState(n, index int, repeat RepeatMode) State {
	return State{
		Playlist:        makeTracks(n),
		CurrentIndex:    index,
		Repeat:          repeat,
		ShufflePosition: -1,
	}
}

func TestAdvanceTarget_Sequential(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		dir       Direction
		wantIndex int
		commit    bool
	}{
		{"next in middle", navState(5, 2, RepeatOff), Next, 3, true},
		{"previous in middle", navState(5, 2, RepeatOff), Previous, 1, true},
		{"next at end stays", navState(5, 4, RepeatOff), Next, 4, false},
		{"previous at start stays", navState(5, 0, RepeatOff), Previous, 0, false},
		{"next at end wraps under repeat all", navState(5, 4, RepeatAll), Next, 0, true},
		{"previous at start wraps under repeat all", navState(5, 0, RepeatAll), Previous, 4, true},
		{"repeat one skips like repeat off", navState(5, 4, RepeatOne), Next, 4, false},
		{"repeat one advances in middle", navState(5, 1, RepeatOne), Next, 2, true},
		{"single track wrap is a no-op", navState(1, 0, RepeatAll), Next, 0, false},
		{"empty playlist", navState(0, -1, RepeatOff), Next, -1, false},
		{"sentinel index", navState(5, -1, RepeatAll), Next, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advanceTarget(tt.state, tt.dir)
			if got.commit != tt.commit {
				t.Fatalf("commit = %v, want %v", got.commit, tt.commit)
			}
			if got.index != tt.wantIndex {
				t.Errorf("index = %d, want %d", got.index, tt.wantIndex)
			}
		})
	}
}

func TestAdvanceTarget_Shuffled(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		pos     int
		repeat  RepeatMode
		dir     Direction
		wantIdx int
		wantPos int
		commit  bool
	}{
		{"next walks the cursor", 0, 1, RepeatOff, Next, 3, 2, true},
		{"previous retraces", 3, 2, RepeatOff, Previous, 0, 1, true},
		{"end without repeat stays", 1, 3, RepeatOff, Next, 1, 3, false},
		{"end wraps under repeat all", 1, 3, RepeatAll, Next, 2, 0, true},
		{"start without repeat stays", 2, 0, RepeatOff, Previous, 2, 0, false},
		{"start wraps under repeat all", 2, 0, RepeatAll, Previous, 1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{
				Playlist:        makeTracks(4),
				CurrentIndex:    tt.index,
				Shuffle:         true,
				ShuffleOrder:    []int{2, 0, 3, 1},
				ShufflePosition: tt.pos,
				Repeat:          tt.repeat,
			}
			got := advanceTarget(s, tt.dir)
			if got.commit != tt.commit {
				t.Fatalf("commit = %v, want %v", got.commit, tt.commit)
			}
			if got.index != tt.wantIdx || got.shufflePos != tt.wantPos {
				t.Errorf("target = (%d, %d), want (%d, %d)", got.index, got.shufflePos, tt.wantIdx, tt.wantPos)
			}
		})
	}
}

func TestAdvanceTarget_ShuffleWithStaleNilOrder_FallsBackSequential(t *testing.T) {
	s := State{
		Playlist:        makeTracks(4),
		CurrentIndex:    1,
		Shuffle:         true,
		ShuffleOrder:    nil,
		ShufflePosition: -1,
	}

	got := advanceTarget(s, Next)

	if !got.commit || got.index != 2 {
		t.Errorf("target = %+v, want commit to index 2", got)
	}
}

func TestAdvanceTarget_DoesNotMutateInput(t *testing.T) {
	tracks := []catalog.Track{{TrackID: "a"}, {TrackID: "b"}}
	s := State{Playlist: tracks, CurrentIndex: 0, ShufflePosition: -1}

	advanceTarget(s, Next)

	if s.CurrentIndex != 0 {
		t.Error("advanceTarget mutated its input")
	}
}
