package homepage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagMerger_Merge(t *testing.T) {
	m := TagMerger{Tag: "ct"}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "single region",
			body: "<h1>Live</h1>\n<!-- ct -->old<!-- /ct -->\n<p>footer</p>",
			want: "<h1>Live</h1>\n<!-- ct -->NEW<!-- /ct -->\n<p>footer</p>",
		},
		{
			name: "every region is replaced",
			body: "a<!-- ct -->1<!-- /ct -->b<!-- ct --><!-- /ct -->c",
			want: "a<!-- ct -->NEW<!-- /ct -->b<!-- ct -->NEW<!-- /ct -->c",
		},
		{
			name: "region at the very end",
			body: "a<!-- ct -->old<!-- /ct -->",
			want: "a<!-- ct -->NEW<!-- /ct -->",
		},
		{
			name:    "missing close marker fails closed",
			body:    "a<!-- ct -->old",
			wantErr: ErrUnclosedRegion,
		},
		{
			name:    "second region unclosed",
			body:    "a<!-- ct -->1<!-- /ct -->b<!-- ct -->2",
			wantErr: ErrUnclosedRegion,
		},
		{
			name:    "no region",
			body:    "<p>nothing to see</p>",
			wantErr: ErrNoRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Merge(tt.body, "NEW")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagMerger_Idempotent(t *testing.T) {
	m := TagMerger{Tag: "ct"}
	first, err := m.Merge("x<!-- ct -->old<!-- /ct -->y", "NEW")
	require.NoError(t, err)
	second, err := m.Merge(first, "NEW")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeBakery(t *testing.T) {
	assert.Equal(t,
		"JTNDYiUzRUxpdmUlMjAlMjZhbXAlM0IlMjBtZWhyJTNDJTJGYiUzRSUyMDE=",
		EncodeBakery("<b>Live &amp; mehr</b> 1"))
}

func TestBakeryMerger_Merge(t *testing.T) {
	m := NewBakeryMerger("ct")
	payload := EncodeBakery("<b>Live &amp; mehr</b> 1")

	body := `[vc_row][vc_raw_html el_class="ct"]T0xE[/vc_raw_html][vc_raw_html el_class="other"]T0xE[/vc_raw_html][/vc_row]`
	got, err := m.Merge(body, "<b>Live &amp; mehr</b> 1")
	require.NoError(t, err)
	assert.Equal(t,
		`[vc_row][vc_raw_html el_class="ct"]`+payload+`[/vc_raw_html][vc_raw_html el_class="other"]T0xE[/vc_raw_html][/vc_row]`,
		got)

	empty := `[vc_raw_html el_class="ct"][/vc_raw_html]`
	got, err = m.Merge(empty, "x")
	require.NoError(t, err)
	assert.Equal(t, `[vc_raw_html el_class="ct"]`+EncodeBakery("x")+`[/vc_raw_html]`, got)

	_, err = m.Merge(`<p>plain</p>`, "x")
	assert.ErrorIs(t, err, ErrNoRegion)
}

func TestConfig_Merger(t *testing.T) {
	assert.IsType(t, TagMerger{}, Config{Tag: "ct"}.Merger())
	assert.IsType(t, &BakeryMerger{}, Config{Tag: "ct", BakeryMode: true}.Merger())
}
