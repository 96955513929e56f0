package playback

import "testing"

func TestParseByteRange(t *testing.T) {
	const size = 1000

	tests := []struct {
		name      string
		header    string
		wantStart int64
		wantEnd   int64
		wantNil   bool
		wantErr   error
	}{
		{name: "no header", header: "", wantNil: true},
		{name: "full range", header: "bytes=0-999", wantStart: 0, wantEnd: 999},
		{name: "open ended", header: "bytes=500-", wantStart: 500, wantEnd: 999},
		{name: "suffix", header: "bytes=-200", wantStart: 800, wantEnd: 999},
		{name: "suffix larger than file", header: "bytes=-5000", wantStart: 0, wantEnd: 999},
		{name: "end clamped to size", header: "bytes=100-5000", wantStart: 100, wantEnd: 999},
		{name: "multi range takes first", header: "bytes=0-99,200-299", wantStart: 0, wantEnd: 99},
		{name: "missing unit", header: "0-99", wantErr: ErrInvalidRange},
		{name: "garbage", header: "bytes=abc-def", wantErr: ErrInvalidRange},
		{name: "no dash", header: "bytes=100", wantErr: ErrInvalidRange},
		{name: "negative start", header: "bytes=-0", wantErr: ErrInvalidRange},
		{name: "start past end of file", header: "bytes=1000-1100", wantErr: ErrUnsatisfiable},
		{name: "inverted", header: "bytes=500-100", wantErr: ErrUnsatisfiable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseByteRange(tc.header, size)
			if tc.wantErr != nil {
				if err != tc.wantErr {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil {
				if got != nil {
					t.Fatalf("range = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("range = nil, want value")
			}
			if got.Start != tc.wantStart || got.End != tc.wantEnd {
				t.Fatalf("range = [%d,%d], want [%d,%d]", got.Start, got.End, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestByteRange_Length(t *testing.T) {
	r := ByteRange{Start: 10, End: 19}
	if got := r.Length(); got != 10 {
		t.Fatalf("Length() = %d, want 10", got)
	}
	if got := r.ContentRange(100); got != "bytes 10-19/100" {
		t.Fatalf("ContentRange() = %q", got)
	}
}
