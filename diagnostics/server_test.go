package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bassbeaver/glifecycle/datastore"
	"github.com/bassbeaver/glifecycle/event_bus"
	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/event_bus/listener"
	"github.com/bassbeaver/glifecycle/scene"
	"github.com/bassbeaver/glifecycle/singleton"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreKeeper struct {
	scene.BaseComponent
	launched int
}

func (c *scoreKeeper) OnLaunched() {
	c.launched++
}

type serverFixture struct {
	scene  *scene.Scene
	bus    *event_bus.EventBus
	store  *datastore.Store
	keeper *scoreKeeper
	server *Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	logger := log.New(io.Discard)

	s := scene.NewScene("test")
	s.Spawn(scene.NewObject("EventsManager", event_bus.NewManager(logger)))
	keeper := &scoreKeeper{}
	player := scene.NewObject("Player", keeper)
	player.Tags = []string{"player"}
	s.Spawn(player)

	singletons := singleton.NewRegistry(s, logger)
	bus := event_bus.NewEventBus(singletons, logger)
	store := datastore.NewStore()
	datastore.Remember(store, "score", 42)

	require.NoError(t, bus.Bind(event.ApplicationLaunched, listener.New(keeper, "scoreKeeper:OnLaunched", keeper.OnLaunched)))

	return &serverFixture{
		scene:  s,
		bus:    bus,
		store:  store,
		keeper: keeper,
		server: NewServer(
			Sources{Singletons: singletons, Events: bus, Objects: s, Store: store},
			logger,
		),
	}
}

func (f *serverFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	return recorder
}

func TestSingletonsRoute(t *testing.T) {
	f := newServerFixture(t)

	recorder := f.get(t, "/singletons")
	require.Equal(t, http.StatusOK, recorder.Code)

	entries := make([]singleton.Entry, 0)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "*event_bus.Manager", entries[0].TypeName)
	assert.Equal(t, "EventsManager", entries[0].Instance)
}

func TestEventsRoute(t *testing.T) {
	f := newServerFixture(t)

	recorder := f.get(t, "/events")
	require.Equal(t, http.StatusOK, recorder.Code)

	chains := make([]event_bus.ChainInfo, 0)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &chains))
	assert.Equal(
		t,
		[]event_bus.ChainInfo{{Event: "ApplicationLaunched", Listeners: []string{"scoreKeeper:OnLaunched"}}},
		chains,
	)
}

func TestObjectsRoute(t *testing.T) {
	f := newServerFixture(t)

	recorder := f.get(t, "/objects")
	require.Equal(t, http.StatusOK, recorder.Code)

	objects := make([]ObjectInfo, 0)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &objects))
	require.Len(t, objects, 2)

	names := []string{objects[0].Name, objects[1].Name}
	assert.ElementsMatch(t, []string{"EventsManager", "Player"}, names)
}

func TestObjectRoute(t *testing.T) {
	f := newServerFixture(t)

	recorder := f.get(t, "/objects/Player")
	require.Equal(t, http.StatusOK, recorder.Code)

	objectInfo := ObjectInfo{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &objectInfo))
	assert.Equal(t, "Player", objectInfo.Name)
	assert.Equal(t, []string{"player"}, objectInfo.Tags)
	assert.Equal(t, []string{"*diagnostics.scoreKeeper"}, objectInfo.Components)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/objects/Enemy").Code)
}

func TestStoreRoute(t *testing.T) {
	f := newServerFixture(t)

	recorder := f.get(t, "/store")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"score": "int"}`, recorder.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	f := newServerFixture(t)

	require.NoError(t, f.bus.Invoke(event.ApplicationLaunched))
	require.NoError(t, f.bus.Invoke(event.ApplicationLaunched))
	f.server.Metrics().FrameUpdated()

	recorder := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `glifecycle_event_invocations_total{event="ApplicationLaunched"} 2`)
	assert.Contains(t, body, "glifecycle_frames_total 1")
	assert.Contains(t, body, "glifecycle_live_objects 2")
	assert.Contains(t, body, "glifecycle_bound_listeners 1")
	assert.Contains(t, body, "glifecycle_singletons 1")
	assert.Equal(t, 2, f.keeper.launched)
}

func TestServerStartAndShutdown(t *testing.T) {
	f := newServerFixture(t)

	require.NoError(t, f.server.Start(0))
	require.NotEmpty(t, f.server.Addr())

	_, port, splitError := net.SplitHostPort(f.server.Addr())
	require.NoError(t, splitError)

	responseObj, getError := http.Get("http://127.0.0.1:" + port + "/store")
	require.NoError(t, getError)
	body, readError := io.ReadAll(responseObj.Body)
	responseObj.Body.Close()
	require.NoError(t, readError)
	assert.True(t, bytes.Contains(body, []byte("score")))

	shutdownContext, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, f.server.Shutdown(shutdownContext))
}
