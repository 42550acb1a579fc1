package transkribus

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

const testToken = "test-session-id"

// fakeTranskribus is an in-memory stand-in for the Transkribus REST API.
type fakeTranskribus struct {
	t *testing.T

	mu          sync.Mutex
	collections []Collection
	documents   map[int][]DocumentSummary
	mets        map[int]string
	imageNames  map[int]string
	pages       map[string]string
	transcripts map[string]string
	nextColID   int
	uploads     []string
	calls       map[string]int
	failPaths   map[string]int
}

func newFakeTranskribus(t *testing.T) (*fakeTranskribus, *httptest.Server) {
	f := &fakeTranskribus{
		t:           t,
		documents:   map[int][]DocumentSummary{},
		mets:        map[int]string{},
		imageNames:  map[int]string{},
		pages:       map[string]string{},
		transcripts: map[string]string{},
		nextColID:   1000,
		calls:       map[string]int{},
		failPaths:   map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeTranskribus) client(srv *httptest.Server, fs afero.Fs) *Client {
	return NewClientWithSession(Session{BaseURL: srv.URL, Token: testToken}, "https://viewer.example.org/sourcefile?id=",
		WithHTTPClient(srv.Client()), WithFs(fs))
}

func (f *fakeTranskribus) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeTranskribus) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls[path]++

	if path == "/auth/login" {
		f.login(w, r)
		return
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value != testToken {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	if status, ok := f.failPaths[path]; ok {
		http.Error(w, "boom", status)
		return
	}

	switch {
	case path == "/collections/list":
		writeJSON(w, f.collections)
	case path == "/collections/listByName":
		name := r.URL.Query().Get("name")
		matches := []Collection{}
		for _, c := range f.collections {
			if c.Name == name {
				matches = append(matches, c)
			}
		}
		writeJSON(w, matches)
	case path == "/collections/createCollection" && r.Method == http.MethodPost:
		f.nextColID++
		f.collections = append(f.collections, Collection{ID: f.nextColID, Name: r.URL.Query().Get("collName")})
		fmt.Fprint(w, f.nextColID)
	case path == "/collections/findDocuments":
		colID, _ := strconv.Atoi(r.URL.Query().Get("collId"))
		title := r.URL.Query().Get("title")
		matches := []DocumentSummary{}
		for _, d := range f.documents[colID] {
			if d.Title == title {
				matches = append(matches, d)
			}
		}
		writeJSON(w, matches)
	case strings.HasPrefix(path, "/transcripts/"):
		body, ok := f.transcripts[strings.TrimPrefix(path, "/transcripts/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, body)
	case path == "/search/fulltext":
		writeJSON(w, map[string]any{"numResults": 1, "query": r.URL.Query().Get("query"), "type": r.URL.Query().Get("type")})
	default:
		f.collectionRoute(w, r, strings.Split(strings.TrimPrefix(path, "/collections/"), "/"))
	}
}

func (f *fakeTranskribus) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("user") != "user@example.org" || r.PostForm.Get("pw") != "secret" {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, `<?xml version="1.0"?><trpUserLogin><userName>user@example.org</userName><sessionId>%s</sessionId></trpUserLogin>`, testToken)
}

func (f *fakeTranskribus) collectionRoute(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	colID, err := strconv.Atoi(parts[0])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "list":
			writeJSON(w, f.documents[colID])
		case "createDocFromMetsUrl":
			f.uploads = append(f.uploads, fmt.Sprintf("%d|%s", colID, r.URL.Query().Get("fileName")))
			fmt.Fprint(w, "ok")
		default:
			http.NotFound(w, r)
		}
		return
	}

	docID, err := strconv.Atoi(parts[1])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch parts[2] {
	case "metadata":
		writeJSON(w, map[string]any{"docId": docID, "title": fmt.Sprintf("Document %d", docID), "nrOfPages": 2})
	case "fulldoc":
		writeJSON(w, map[string]any{
			"md": map[string]any{"docId": docID},
			"pageList": map[string]any{"pages": []map[string]any{
				{"pageId": 11, "docId": docID, "pageNr": 1, "thumbUrl": "https://files.example.org/thumb/11", "width": 100},
				{"pageId": 12, "docId": docID, "pageNr": 2, "thumbUrl": "https://files.example.org/thumb/12", "width": 100},
			}},
		})
	case "mets":
		body, ok := f.mets[docID]
		if !ok {
			http.Error(w, "no mets", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, body)
	case "imageNames":
		fmt.Fprint(w, f.imageNames[docID])
	default:
		key := fmt.Sprintf("%d/%s", docID, parts[2])
		body, ok := f.pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, body)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
