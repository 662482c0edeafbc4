package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/clausetree/internal/chunker"
	"github.com/dgallion1/clausetree/internal/doctree"
	"github.com/dgallion1/clausetree/internal/outline"
	"github.com/dgallion1/clausetree/internal/parser"
	"github.com/dgallion1/clausetree/internal/pathstore"
)

// Worker processes a single document job.
type Worker struct {
	store    Store
	recon    *outline.Reconstructor
	stats    *LatencyStats
	log      *slog.Logger
	chunkCfg chunker.Config
	prefix   string

	maxConcurrentStore   int
	pdfFallbackPdftotext bool

	wait func(attempt int) time.Duration
}

func NewWorker(store Store, recon *outline.Reconstructor, stats *LatencyStats, log *slog.Logger, chunkCfg chunker.Config, prefix string, maxStore int, pdfFallback bool) *Worker {
	if maxStore <= 0 {
		maxStore = 1
	}
	if stats == nil {
		stats = NewLatencyStats(time.Hour)
	}
	return &Worker{
		store:                store,
		recon:                recon,
		stats:                stats,
		log:                  log,
		chunkCfg:             chunkCfg,
		prefix:               prefix,
		maxConcurrentStore:   maxStore,
		pdfFallbackPdftotext: pdfFallback,
		wait:                 Backoff,
	}
}

// write is one pending pathstore node, optionally linked to another key.
type write struct {
	kind   string
	key    string
	req    pathstore.NodeRequest
	linkTo string
}

const (
	kindClause = "clause"
	kindChunk  = "chunk"
)

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "user_id", job.UserID)
	defer func() {
		jobsFinished.WithLabelValues(string(job.Snapshot().Status)).Inc()
	}()
	keys := Keys{Prefix: w.prefix, UserID: job.UserID}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallbackPdftotext
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	}

	hash := ContentHashHex([]byte(sourceText(src)))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	existingDocID, err := w.findDuplicate(ctx, keys, hash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingDocID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Reconstruct
	job.SetStatus(StatusReconstructing, "reconstructing")
	start := time.Now()
	doc, err := w.recon.Reconstruct(src.Lines, src.Tables)
	elapsed := time.Since(start)
	w.stats.Record(elapsed)
	reconstructDuration.Observe(elapsed.Seconds())
	if err != nil {
		log.Error("reconstruction failed", "error", err)
		job.AddError(fmt.Sprintf("reconstruct: %s", err))
		job.SetStatus(StatusFailed, "reconstructing")
		return
	}
	job.SetDocument(doc, len(src.Lines))
	clauses := doc.NodeCount()
	clausesReconstructed.Add(float64(clauses))
	log.Info("reconstructed outline",
		"lines", len(src.Lines),
		"groups", len(doc.Groups),
		"clauses", clauses,
		"glossary_terms", len(doc.Glossary),
		"duration_ms", elapsed.Milliseconds(),
	)

	if clauses == 0 {
		log.Warn("no clauses recognised")
		job.AddError("no clauses recognised")
		job.SetStatus(StatusFailed, "reconstructing")
		return
	}

	// Phase 3: Chunk
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkDocument(doc, w.chunkCfg)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	// Phase 4: Store
	job.SetStatus(StatusStoring, "storing")
	source := "clausetree:" + job.DocID
	writes := clauseWrites(doc, keys, job.DocID, source)
	writes = append(writes, chunkWrites(doc, chunks, keys, job.DocID, source)...)

	storedClauses, storedChunks, failed := w.storeAll(ctx, log, job, writes)
	job.AddStored(storedClauses, storedChunks)
	hadErrors := failed > 0
	log.Info("storage complete", "clauses", storedClauses, "chunks", storedChunks, "failed", failed)

	if len(doc.Glossary) > 0 {
		err := w.put(ctx, keys.Glossary(job.DocID), pathstore.NodeRequest{
			Value:      doc.Glossary,
			MemoryType: "semantic",
			Salience:   0.6,
			Source:     source,
		})
		if err != nil {
			log.Error("glossary write failed", "error", err)
			job.AddError(fmt.Sprintf("glossary: %s", err))
			hadErrors = true
		}
	}

	// Write document metadata.
	metaErr := w.put(ctx, keys.Meta(job.DocID), pathstore.NodeRequest{
		Value: map[string]any{
			"doc_id":         job.DocID,
			"filename":       job.Filename,
			"title":          src.Title,
			"content_hash":   hash,
			"groups":         groupLabels(doc),
			"clauses":        clauses,
			"clauses_stored": storedClauses,
			"chunks_stored":  storedChunks,
			"glossary_terms": len(doc.Glossary),
			"created_at":     job.CreatedAt.Format(time.RFC3339),
		},
		MemoryType: "metacognitive",
		Salience:   0.5,
		Source:     source,
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
		hadErrors = true
	}

	// Write hash index for dedup.
	hashErr := w.put(ctx, keys.HashEntry(hash, job.DocID), pathstore.NodeRequest{
		Value: map[string]any{
			"filename":   job.Filename,
			"created_at": job.CreatedAt.Format(time.RFC3339),
		},
		MemoryType: "metacognitive",
		Salience:   0.1,
		Source:     source,
	})
	if hashErr != nil {
		log.Error("hash index write failed", "error", hashErr)
	}

	stored := storedClauses + storedChunks
	switch {
	case hadErrors && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// put writes a node, retrying transient pathstore failures.
func (w *Worker) put(ctx context.Context, key string, req pathstore.NodeRequest) error {
	return withRetry(ctx, w.wait, func() error {
		return w.store.PutNode(ctx, key, req)
	})
}

// storeAll writes nodes with bounded concurrency and returns the number of
// stored clauses, stored chunks and failed writes.
func (w *Worker) storeAll(ctx context.Context, log *slog.Logger, job *Job, writes []write) (int, int, int) {
	type storeResult struct {
		kind string
		key  string
		err  error
	}
	results := make(chan storeResult, len(writes))
	sem := make(chan struct{}, w.maxConcurrentStore)

	for _, wr := range writes {
		sem <- struct{}{}
		go func(wr write) {
			defer func() { <-sem }()
			if err := w.put(ctx, wr.key, wr.req); err != nil {
				results <- storeResult{kind: wr.kind, key: wr.key, err: err}
				return
			}
			if wr.linkTo != "" {
				linkErr := withRetry(ctx, w.wait, func() error {
					return w.store.PutLink(ctx, pathstore.LinkRequest{
						From:    wr.key,
						To:      wr.linkTo,
						Weight:  1,
						Summary: "chunk of clause",
					})
				})
				if linkErr != nil {
					log.Warn("link write failed", "from", wr.key, "to", wr.linkTo, "error", linkErr)
				}
			}
			results <- storeResult{kind: wr.kind, key: wr.key}
		}(wr)
	}

	var clauses, chunks, failed int
	for range writes {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "key", r.key, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", r.key, r.err))
			failed++
			continue
		}
		switch r.kind {
		case kindClause:
			clauses++
		case kindChunk:
			chunks++
		}
	}
	return clauses, chunks, failed
}

// findDuplicate returns the id of a stored document with the same content
// hash, or "" when there is none.
func (w *Worker) findDuplicate(ctx context.Context, keys Keys, hash string) (string, error) {
	children, err := w.store.ListChildren(ctx, keys.HashIndex(hash), 1)
	if err != nil {
		return "", err
	}
	if len(children) > 0 {
		return LastSegment(children[0].Key), nil
	}
	return "", nil
}

// clauseWrites produces one node per clause in document order.
func clauseWrites(doc *doctree.Document, keys Keys, docID, source string) []write {
	var writes []write
	doc.Walk(func(g *doctree.Group, s *doctree.Section, n *doctree.Node) {
		writes = append(writes, write{
			kind: kindClause,
			key:  keys.Clause(docID, len(writes)),
			req: pathstore.NodeRequest{
				Value: map[string]any{
					"group":         g.Label,
					"section":       s.Name,
					"chapter_id":    n.ChapterID,
					"chapter_title": n.ChapterTitle,
					"full_path":     n.FullPath,
					"raw_text":      n.RawText,
					"start_page":    n.StartPage,
					"end_page":      n.EndPage,
					"table_names":   n.TableNames,
					"children":      len(n.Children),
				},
				MemoryType: "semantic",
				Salience:   0.5,
				Source:     source,
			},
		})
	})
	return writes
}

// chunkWrites produces one node per chunk, linked to the clause it was cut
// from. Section context chunks have no clause and are not linked.
func chunkWrites(doc *doctree.Document, chunks []doctree.Chunk, keys Keys, docID, source string) []write {
	clauseKeys := make(map[string]string)
	i := 0
	doc.Walk(func(g *doctree.Group, s *doctree.Section, n *doctree.Node) {
		ref := clauseRef(g.Label, s.Name, n.FullPath)
		if _, ok := clauseKeys[ref]; !ok {
			clauseKeys[ref] = keys.Clause(docID, i)
		}
		i++
	})

	writes := make([]write, 0, len(chunks))
	for _, c := range chunks {
		var linkTo string
		if len(c.Breadcrumb) > 2 {
			linkTo = clauseKeys[clauseRef(c.Breadcrumb[0], c.Breadcrumb[1], strings.Join(c.Breadcrumb[2:], "/"))]
		}
		writes = append(writes, write{
			kind: kindChunk,
			key:  keys.Chunk(docID, c.Index),
			req: pathstore.NodeRequest{
				Value: map[string]any{
					"text":       c.Text,
					"breadcrumb": c.Breadcrumb,
					"page_start": c.PageStart,
					"page_end":   c.PageEnd,
				},
				MemoryType: "semantic",
				Salience:   0.4,
				Source:     source,
			},
			linkTo: linkTo,
		})
	}
	return writes
}

func clauseRef(group, section, path string) string {
	return group + "\x00" + section + "\x00" + path
}

func groupLabels(doc *doctree.Document) []string {
	labels := make([]string, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// sourceText joins all extracted lines for hashing.
func sourceText(src *doctree.Source) string {
	var sb strings.Builder
	for i, l := range src.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}
