package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/caseintel/resolver/internal/config"
	"github.com/caseintel/resolver/internal/core"
	"github.com/caseintel/resolver/internal/core/extraction"
	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/driver"
	"github.com/caseintel/resolver/internal/llm"
)

type Server struct {
	Resolver  *core.Resolver
	Extractor *extraction.Extractor
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using default configuration", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars override file values.
	if uri := os.Getenv("MEMGRAPH_URI"); uri != "" {
		cfg.Memgraph.URI = uri
	}
	if user := os.Getenv("MEMGRAPH_USER"); user != "" {
		cfg.Memgraph.User = user
	}
	if pass := os.Getenv("MEMGRAPH_PASSWORD"); pass != "" {
		cfg.Memgraph.Password = pass
	}
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}

	// The graph store is optional: without it the service still resolves,
	// it just returns results instead of also persisting them.
	var graph driver.GraphDriver
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			log.Fatalf("Failed to connect to Memgraph at %s: %v", cfg.Memgraph.URI, err)
		}
		graph = d
	} else {
		log.Println("MEMGRAPH_URI not set, persistence disabled")
	}

	ids := ident.UUID{}
	resolver := core.NewResolver(graph, cfg, ids)

	if err := resolver.BuildIndices(context.Background()); err != nil {
		log.Printf("Failed to build indices: %v", err)
	}

	// Extraction is likewise optional; /analyze needs it, /resolve does not.
	var extractor *extraction.Extractor
	if cfg.LLM.Provider != "" {
		client, err := llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
		extractor = extraction.NewExtractor(client, cfg.Extraction.Entities, ids)
	} else {
		log.Println("LLM provider not configured, /analyze disabled")
	}

	return &Server{
		Resolver:  resolver,
		Extractor: extractor,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/resolve", s.Resolve)
	r.POST("/analyze", s.Analyze)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ResolveRequest struct {
	CaseID   string               `json:"case_id"`
	Entities []model.EntityRecord `json:"entities"`
}

// Resolve runs the resolution pipeline over pre-extracted entity records.
func (s *Server) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resolution := s.Resolver.Resolve(req.CaseID, req.Entities)

	if err := s.Resolver.PersistResolution(c.Request.Context(), resolution); err != nil {
		log.Printf("Failed to persist resolution for case %s: %v", req.CaseID, err)
		// The resolution itself is still good; return it.
	}

	c.JSON(http.StatusOK, resolution)
}

type AnalyzeRequest struct {
	CaseID    string `json:"case_id"`
	Documents []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	} `json:"documents"`
}

// Analyze extracts entities from raw documents, then resolves them.
func (s *Server) Analyze(c *gin.Context) {
	if s.Extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No LLM provider configured"})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var records []model.EntityRecord
	for _, doc := range req.Documents {
		extracted, err := s.Extractor.ExtractEntities(c.Request.Context(), doc.ID, doc.Content)
		if err != nil {
			log.Printf("Extraction failed for document %s: %v", doc.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract entities"})
			return
		}
		records = append(records, extracted...)
	}

	resolution := s.Resolver.Resolve(req.CaseID, records)

	if err := s.Resolver.PersistResolution(c.Request.Context(), resolution); err != nil {
		log.Printf("Failed to persist resolution for case %s: %v", req.CaseID, err)
	}

	c.JSON(http.StatusOK, resolution)
}
