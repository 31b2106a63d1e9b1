package parser

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	html := `<html><body>
		<a href="/text/475/p.1/index.html">first</a>
		<a href="   ">blank</a>
		<a href="https://other.test/page.html">absolute</a>
		<a href="p.2/index.html">relative</a>
		<a href="/text/475/p.1/index.html">duplicate</a>
	</body></html>`

	links, err := ExtractLinks(html, "https://ilibrary.ru/text/475/p.1/index.html")
	if err != nil {
		t.Fatalf("extract links: %v", err)
	}

	want := []string{
		"https://ilibrary.ru/text/475/p.1/index.html",
		"https://other.test/page.html",
		"https://ilibrary.ru/text/475/p.1/p.2/index.html",
		"https://ilibrary.ru/text/475/p.1/index.html",
	}
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
}

func TestExtractLinksNoAnchors(t *testing.T) {
	links, err := ExtractLinks("<html><body><p>nothing here</p></body></html>", "https://ilibrary.ru/")
	if err != nil {
		t.Fatalf("extract links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("links = %v, want none", links)
	}
}

func TestExtractLinksRejectsRelativeBase(t *testing.T) {
	if _, err := ExtractLinks("<a href=\"x\">x</a>", "/author.html"); err == nil {
		t.Fatalf("relative base url should error")
	}
}

func TestClassifierAuthorIndex(t *testing.T) {
	c, err := NewClassifier("ilibrary.ru")
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}

	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://ilibrary.ru/author/chekhov/index.html", want: true},
		{url: "http://www.ilibrary.ru/author/chekhov/index.html", want: true},
		{url: "https://ilibrary.ru/author/chekhov/l.all/index.html", want: false},
		{url: "https://ilibrary.ru/author/index.html", want: false},
		{url: "https://other.test/author/chekhov/index.html", want: false},
		{url: "https://ilibrary.ru/author/chekhov/index.html?page=2", want: false},
		{url: "https://ilibrary.ru/text/475/p.1/index.html", want: false},
	}
	for _, tt := range tests {
		if got := c.IsAuthorIndex(tt.url); got != tt.want {
			t.Errorf("IsAuthorIndex(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifierTextPage(t *testing.T) {
	c, err := NewClassifier("www.ilibrary.ru")
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}

	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://ilibrary.ru/text/475/p.1/index.html", want: true},
		{url: "http://www.ilibrary.ru/text/1/p.12/index.html", want: true},
		{url: "https://ilibrary.ru/text/475/p.1/index.html#fn1", want: false},
		{url: "https://ilibrary.ru/text/abc/p.1/index.html", want: false},
		{url: "https://ilibrary.ru/text/475/p.x/index.html", want: false},
		{url: "https://ilibrary.ru/text/475/index.html", want: false},
		{url: "https://ilibrary.ru/text/475/p.1/", want: false},
		{url: "https://other.test/text/475/p.1/index.html", want: false},
	}
	for _, tt := range tests {
		if got := c.IsTextPage(tt.url); got != tt.want {
			t.Errorf("IsTextPage(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestWorksListURL(t *testing.T) {
	got := WorksListURL("https://ilibrary.ru/author/chekhov/index.html")
	want := "https://ilibrary.ru/author/chekhov/l.all/index.html"
	if got != want {
		t.Fatalf("WorksListURL = %q, want %q", got, want)
	}
}
