package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/control"
	"github.com/timvw/pane-carousel/internal/model"
)

func TestParseSendArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    control.Request
		wantErr bool
	}{
		{args: []string{"mark_pane"}, want: control.Request{Command: "mark_pane"}},
		{args: []string{"show_self"}, want: control.Request{Command: "show_self"}},
		{args: []string{"key", "down"}, want: control.Request{Command: "key", Key: "down"}},
		{args: []string{"activate", "4"}, want: control.Request{Command: "activate", Index: 4}},
		{args: []string{"key"}, wantErr: true},
		{args: []string{"activate", "four"}, wantErr: true},
		{args: []string{"mark_pane", "extra"}, wantErr: true},
		{args: []string{"reboot"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := parseSendArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrintView(t *testing.T) {
	view := carousel.View{
		Entries: []carousel.Entry{
			{Index: 0, Pane: model.TerminalPane(3), Title: "vim"},
			{Index: 1, Pane: model.TerminalPane(4), Title: "htop", Focused: true},
		},
		Selected: 1,
	}
	var buf bytes.Buffer
	if err := printView(&buf, view, false); err != nil {
		t.Fatal(err)
	}
	want := "  <0> vim\n> <1> htop [focused]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := printView(&buf, carousel.View{}, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "NO ITEMS.\n" {
		t.Errorf("empty: got %q", buf.String())
	}

	buf.Reset()
	if err := printView(&buf, view, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"title": "htop"`) {
		t.Errorf("json: %s", buf.String())
	}
}
