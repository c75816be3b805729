package diagnostics

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/bassbeaver/glifecycle/response"
	"github.com/charmbracelet/log"
	"github.com/husobee/vestigo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is a read-only HTTP view on the running kernel.
type Server struct {
	sources    Sources
	metrics    *Metrics
	router     *vestigo.Router
	httpServer *http.Server
	logger     *log.Logger
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the address the server listens on, empty until Start succeeds
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens on port and serves in background. Port 0 picks a free port.
func (s *Server) Start(port int) error {
	listener, listenError := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if nil != listenError {
		return listenError
	}
	s.httpServer.Addr = listener.Addr().String()

	go func() {
		serveError := s.httpServer.Serve(listener)
		if nil != serveError && http.ErrServerClosed != serveError {
			s.logger.Error("diagnostics server stopped", "error", serveError)
		}
	}()
	s.logger.Info("diagnostics server started", "addr", s.httpServer.Addr)

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) singletonsHandler(responseWriter http.ResponseWriter, requestObj *http.Request) {
	response.Send(responseWriter, response.NewJsonResponse(s.sources.Singletons.Entries()))
}

func (s *Server) eventsHandler(responseWriter http.ResponseWriter, requestObj *http.Request) {
	response.Send(responseWriter, response.NewJsonResponse(s.sources.Events.Chains()))
}

func (s *Server) objectsHandler(responseWriter http.ResponseWriter, requestObj *http.Request) {
	objects := s.sources.Objects.Objects()
	result := make([]ObjectInfo, 0, len(objects))
	for _, o := range objects {
		result = append(result, newObjectInfo(o))
	}

	response.Send(responseWriter, response.NewJsonResponse(result))
}

func (s *Server) objectHandler(responseWriter http.ResponseWriter, requestObj *http.Request) {
	name := vestigo.Param(requestObj, "name")
	for _, o := range s.sources.Objects.Objects() {
		if o.Name == name {
			response.Send(responseWriter, response.NewJsonResponse(newObjectInfo(o)))
			return
		}
	}

	response.Send(responseWriter, response.NewJsonErrorResponse(http.StatusNotFound, "object "+name+" not found"))
}

func (s *Server) storeHandler(responseWriter http.ResponseWriter, requestObj *http.Request) {
	response.Send(responseWriter, response.NewJsonResponse(s.sources.Store.Types()))
}

//--------------------

// NewServer builds the server and subscribes its metrics to the event bus invocations.
func NewServer(sources Sources, logger *log.Logger) *Server {
	if nil == logger {
		logger = log.Default()
	}

	s := &Server{
		sources:    sources,
		metrics:    NewMetrics(sources),
		router:     vestigo.NewRouter(),
		httpServer: &http.Server{},
		logger:     logger,
	}
	sources.Events.SetObserver(s.metrics.EventInvoked)

	s.router.Get("/singletons", s.singletonsHandler)
	s.router.Get("/events", s.eventsHandler)
	s.router.Get("/objects", s.objectsHandler)
	s.router.Get("/objects/:name", s.objectHandler)
	s.router.Get("/store", s.storeHandler)
	s.router.Get("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)

	s.httpServer.Handler = s.router

	return s
}
