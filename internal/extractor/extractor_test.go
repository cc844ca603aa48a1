package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/frontier-crawler/internal/extractor"
)

func TestExtractLinks_Anchors(t *testing.T) {
	html := `<html><body>
		<a href="/a.pdf">A</a>
		<a href="/b.html">B</a>
		<a href="https://example.org/c.pdf">C</a>
	</body></html>`

	links, err := extractor.ExtractLinks(html)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/a.pdf", "/b.html", "https://example.org/c.pdf"}, links.Hrefs)
}

func TestExtractLinks_OnclickLocation(t *testing.T) {
	html := `<html><body>
		<div onclick="window.location = '/redirect1'">x</div>
		<div onclick="window.location.href='/redirect2'">y</div>
	</body></html>`

	links, err := extractor.ExtractLinks(html)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/redirect1", "/redirect2"}, links.OnclickLocations)
}

func TestExtractLinks_OnclickDownload(t *testing.T) {
	html := `<html><body>
		<button onclick="downloadFile('/files/report.pdf')">Download</button>
	</body></html>`

	links, err := extractor.ExtractLinks(html)
	require.NoError(t, err)
	assert.Contains(t, links.Hrefs, "/files/report.pdf")
}

func TestExtractLinks_DataAttributes(t *testing.T) {
	html := `<html><body>
		<div data-href="/via-data-href">a</div>
		<div data-url="/via-data-url">b</div>
		<button data-file="/docs/file.docx">c</button>
	</body></html>`

	links, err := extractor.ExtractLinks(html)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/via-data-href", "/via-data-url", "/docs/file.docx"}, links.DataAttributes)
}

func TestRawLinks_All_DedupesAndOrders(t *testing.T) {
	r := extractor.RawLinks{
		Hrefs:            []string{"/x", "/y", "/x"},
		OnclickLocations: []string{"/y", "/z"},
		DataAttributes:   []string{"/z", "/w"},
	}
	assert.Equal(t, []string{"/x", "/y", "/z", "/w"}, r.All())
}

func TestIsFileTyped(t *testing.T) {
	assert.True(t, extractor.IsFileTyped("/a.pdf"))
	assert.True(t, extractor.IsFileTyped("/a.DOCX"))
	assert.False(t, extractor.IsFileTyped("/a.html"))
}
