package glifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/bassbeaver/gioc"
	"github.com/bassbeaver/glifecycle/config"
	"github.com/bassbeaver/glifecycle/datastore"
	"github.com/bassbeaver/glifecycle/diagnostics"
	kernelError "github.com/bassbeaver/glifecycle/error"
	"github.com/bassbeaver/glifecycle/event_bus"
	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/event_bus/listener"
	"github.com/bassbeaver/glifecycle/helper"
	"github.com/bassbeaver/glifecycle/routine"
	"github.com/bassbeaver/glifecycle/scene"
	"github.com/bassbeaver/glifecycle/singleton"
	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	configDefaultFrameIntervalMs   = 16
	configDefaultShutdownTimeoutMs = 500
	EventsManagerObjectName        = "EventsManager"
)

var ErrAlreadyStarted = errors.New("kernel is already started")

// Kernel owns the scene, the singleton registry and the event bus of one application, and
// drives the frame loop.
type Kernel struct {
	config         *viper.Viper
	container      *gioc.Container
	scene          *scene.Scene
	singletons     *singleton.Registry
	eventsRegistry *event_bus.EventsRegistry
	eventBus       *event_bus.EventBus
	dataStore      *datastore.Store
	diagnostics    *diagnostics.Server
	logger         *log.Logger
	clock          clock.Clock
	routines       []*routine.Routine
	routinesLock   sync.Mutex
	frame          uint64
	started        bool
}

type Option func(k *Kernel)

// WithLogger replaces the logger built from the log config
func WithLogger(logger *log.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

func WithClock(clockObj clock.Clock) Option {
	return func(k *Kernel) {
		k.clock = clockObj
	}
}

func (k *Kernel) GetContainer() *gioc.Container {
	return k.container
}

func (k *Kernel) GetScene() *scene.Scene {
	return k.scene
}

func (k *Kernel) GetSingletons() *singleton.Registry {
	return k.singletons
}

func (k *Kernel) GetEventsRegistry() *event_bus.EventsRegistry {
	return k.eventsRegistry
}

func (k *Kernel) GetEventBus() *event_bus.EventBus {
	return k.eventBus
}

func (k *Kernel) GetDataStore() *datastore.Store {
	return k.dataStore
}

func (k *Kernel) GetDiagnostics() *diagnostics.Server {
	return k.diagnostics
}

func (k *Kernel) GetLogger() *log.Logger {
	return k.logger
}

func (k *Kernel) RegisterService(alias string, factoryMethod interface{}, enableCaching bool) error {
	return helper.RegisterService(
		k.config,
		k.container,
		alias,
		factoryMethod,
		enableCaching,
	)
}

// Spawn adds o to the scene and invokes ObjectSpawned
func (k *Kernel) Spawn(o *scene.Object) error {
	k.scene.Spawn(o)

	return k.eventBus.InvokeParam(event.ObjectSpawned, o)
}

// Destroy invokes ObjectDestroyed while o is still alive, then destroys it. Singleton slots
// and listeners left by its components are released by the scene destroy hook.
func (k *Kernel) Destroy(o *scene.Object) error {
	invokeError := k.eventBus.InvokeParam(event.ObjectDestroyed, o)
	k.scene.Destroy(o)

	return invokeError
}

// StartRoutine runs fn in background. Routines still running at shutdown are stopped.
func (k *Kernel) StartRoutine(ctx context.Context, fn func(ctx context.Context) error) *routine.Routine {
	routineObj := routine.Start(ctx, fn)

	k.routinesLock.Lock()
	k.routines = append(k.routines, routineObj)
	k.routinesLock.Unlock()

	return routineObj
}

// Start validates the container, builds the configured scene objects and listeners, starts the
// scene and invokes SceneStarted followed by ApplicationLaunched.
func (k *Kernel) Start() error {
	if k.started {
		return ErrAlreadyStarted
	}

	if noCycles, cycledService := k.container.CheckCycles(); !noCycles {
		return errors.New("failed to start application, errors in DI container: service " + cycledService + " has circular dependencies")
	}

	// Config reading. A failed start leaves nothing behind, so Start may be called again.
	rollback := make([]func(), 0)
	if configError := k.readConfig(&rollback); nil != configError {
		for i := len(rollback) - 1; i >= 0; i-- {
			rollback[i]()
		}
		k.logger.Debug("start failed, configured objects and listeners rolled back", "error", configError)

		return configError
	}

	k.scene.Start()
	k.started = true
	k.logger.Info("scene started", "scene", k.scene.Name, "objects", len(k.scene.Objects()))

	if invokeError := k.eventBus.Invoke(event.SceneStarted); nil != invokeError {
		return invokeError
	}

	return k.eventBus.Invoke(event.ApplicationLaunched)
}

// Tick runs one frame: updates the scene and invokes FrameUpdated. A panic raised by a
// component or a listener is recovered and reported through the RuntimeError event. The rest
// of that frame is skipped: later components and FrameUpdated listeners run next frame.
func (k *Kernel) Tick(deltaTime time.Duration) (tickError error) {
	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			tickError = k.performRecover(recoveredError, debug.Stack())
		}
	}()

	k.frame++
	k.scene.Update(deltaTime)
	k.diagnostics.Metrics().FrameUpdated()

	return k.eventBus.InvokeParam(event.FrameUpdated, event.NewFrameUpdate(k.frame, deltaTime))
}

// Run starts the kernel and drives frames until ctx is done or the process receives SIGINT or
// SIGTERM. On the way out it invokes ShutdownRequested and ApplicationTermination, stops the
// routines and destroys every object. Errors collected during termination are combined.
func (k *Kernel) Run(ctx context.Context) error {
	if startError := k.Start(); nil != startError {
		return startError
	}

	terminationErrors := make([]error, 0)

	diagnosticsStarted := false
	if k.config.IsSet("http_port") {
		if listenError := k.diagnostics.Start(k.config.GetInt("http_port")); nil != listenError {
			terminationErrors = append(terminationErrors, listenError)
		} else {
			diagnosticsStarted = true
		}
	}

	if 0 == len(terminationErrors) {
		if loopError := k.frameLoop(ctx); nil != loopError {
			terminationErrors = append(terminationErrors, loopError)
		}
	}

	k.shutdown(&terminationErrors, diagnosticsStarted)

	return multierr.Combine(terminationErrors...)
}

func (k *Kernel) frameLoop(ctx context.Context) error {
	signalsChannel := make(chan os.Signal, 1)
	signal.Notify(signalsChannel, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalsChannel)

	ticker := k.clock.Ticker(k.frameInterval())
	defer ticker.Stop()

	lastFrame := k.clock.Now()
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("shutdown requested", "reason", ctx.Err())
			return k.eventBus.Invoke(event.ShutdownRequested)
		case signalObj := <-signalsChannel:
			k.logger.Info("shutdown requested", "signal", signalObj.String())
			return k.eventBus.Invoke(event.ShutdownRequested)
		case now := <-ticker.C:
			deltaTime := now.Sub(lastFrame)
			lastFrame = now
			if tickError := k.Tick(deltaTime); nil != tickError {
				return tickError
			}
		}
	}
}

func (k *Kernel) shutdown(terminationErrors *[]error, diagnosticsStarted bool) {
	shutdownTimeout := k.shutdownTimeout()
	shutdownContext, shutdownContextCancelFunc := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownContextCancelFunc()

	if diagnosticsStarted {
		shutdownError := k.diagnostics.Shutdown(shutdownContext)
		if nil != shutdownError {
			if context.DeadlineExceeded == shutdownError {
				*terminationErrors = append(
					*terminationErrors,
					errors.New(fmt.Sprintf("glifecycle: graceful shutdown timeout of %s expired", shutdownTimeout)),
				)
			} else {
				*terminationErrors = append(*terminationErrors, shutdownError)
			}
		}
	}

	invokeError := k.eventBus.InvokeParam(event.ApplicationTermination, event.NewApplicationTermination(terminationErrors))
	if nil != invokeError {
		*terminationErrors = append(*terminationErrors, invokeError)
	}

	k.routinesLock.Lock()
	routines := k.routines
	k.routines = nil
	k.routinesLock.Unlock()
	for _, routineObj := range routines {
		routineObj.Stop()
	}
	if waitError := routine.WaitAll(shutdownContext, routines); nil != waitError {
		*terminationErrors = append(*terminationErrors, waitError)
	}

	k.scene.DestroyAll()
	k.logger.Info("application terminated", "frames", k.frame)
}

func (k *Kernel) performRecover(recoveredError interface{}, trace []byte) error {
	runtimeError := kernelError.NewRuntimeError(recoveredError, trace)
	k.logger.Error("frame update panicked", "frame", k.frame, "error", recoveredError)

	// a panicking error listener must neither escape the frame nor silence the other listeners
	return k.eventBus.InvokeParamIsolated(
		event.RuntimeError,
		runtimeError,
		func(listenerLabel string, listenerPanic interface{}) {
			k.logger.Error("runtime error listener panicked", "listener", listenerLabel, "error", listenerPanic)
		},
	)
}

// releaseObject is the scene destroy hook: a destroyed object gives up the singleton slots of
// its components and every listener it or its components left bound.
func (k *Kernel) releaseObject(o *scene.Object) {
	for _, component := range o.Components() {
		k.singletons.ReleaseInstance(component)
		k.eventBus.SweepDanglingHandlers(component)
	}
	k.eventBus.SweepDanglingHandlers(o)
}

func (k *Kernel) readConfig(rollback *[]func()) error {
	// Scene objects
	if k.config.IsSet("scene.objects") {
		objectsConfig := make([]config.SceneObjectConfig, 0)
		objectsConfigError := k.config.UnmarshalKey("scene.objects", &objectsConfig)
		if nil != objectsConfigError {
			return errors.New("failed to read scene objects config: " + objectsConfigError.Error())
		}

		for _, objectConfig := range objectsConfig {
			objectObj, buildError := k.buildObject(objectConfig)
			if nil != buildError {
				return buildError
			}
			spawnError := k.Spawn(objectObj)
			*rollback = append(*rollback, func() {
				k.scene.Destroy(objectObj)
			})
			if nil != spawnError {
				return spawnError
			}
		}
	}

	// Event listeners
	if k.config.IsSet("event_listeners") {
		listenersConfig := make([]config.EventListenerConfig, 0)
		listenersConfigError := k.config.UnmarshalKey("event_listeners", &listenersConfig)
		if nil != listenersConfigError {
			return errors.New("failed to read event listeners config, error: " + listenersConfigError.Error())
		}

		for _, listenerConfig := range listenersConfig {
			unbind, bindError := k.bindConfiguredListener(listenerConfig)
			if nil != bindError {
				return errors.New(
					fmt.Sprintf(
						"failed to register event listener %s, event: %s, error: %s",
						listenerConfig.Listener,
						listenerConfig.EventName,
						bindError.Error(),
					),
				)
			}
			*rollback = append(*rollback, unbind)
		}
	}

	return nil
}

func (k *Kernel) buildObject(objectConfig config.SceneObjectConfig) (*scene.Object, error) {
	objectObj := scene.NewObject(objectConfig.Name)
	objectObj.Tags = objectConfig.Tags

	for _, componentAlias := range objectConfig.Components {
		serviceObj, serviceError := k.getService(componentAlias)
		if nil != serviceError {
			return nil, serviceError
		}

		component, isComponent := serviceObj.(scene.Component)
		if !isComponent {
			return nil, errors.New(
				fmt.Sprintf("service %s of object %s is %T, not a scene component", componentAlias, objectConfig.Name, serviceObj),
			)
		}
		objectObj.AddComponent(component)
	}

	for _, childConfig := range objectConfig.Children {
		child, childError := k.buildObject(childConfig)
		if nil != childError {
			return nil, childError
		}
		objectObj.AddChild(child)
	}

	return objectObj, nil
}

// bindConfiguredListener returns the function undoing the binding
func (k *Kernel) bindConfiguredListener(listenerConfig config.EventListenerConfig) (func(), error) {
	listenerObj, serviceError := k.getService(listenerConfig.ListenerAlias())
	if nil != serviceError {
		return nil, serviceError
	}

	methodValue := reflect.ValueOf(listenerObj).MethodByName(listenerConfig.ListenerMethod())
	if !methodValue.IsValid() {
		return nil, errors.New(
			fmt.Sprintf("method %s not found in listener object %s", listenerConfig.ListenerMethod(), listenerConfig.ListenerAlias()),
		)
	}

	if k.eventsRegistry.IsParameterized(listenerConfig.EventName) {
		tag, parameterType, tagError := k.eventsRegistry.GetParamTagByName(listenerConfig.EventName)
		if nil != tagError {
			return nil, tagError
		}

		paramListener, listenerError := listener.ParamFromMethod(listenerObj, listenerConfig.Listener, methodValue.Interface(), parameterType)
		if nil != listenerError {
			return nil, listenerError
		}

		unbind := func() {
			k.eventBus.UnbindParam(tag, paramListener)
		}

		return unbind, k.eventBus.BindParamWithPriority(tag, paramListener, listenerConfig.Priority)
	}

	tag, tagError := k.eventsRegistry.GetTagByName(listenerConfig.EventName)
	if nil != tagError {
		return nil, tagError
	}

	parameterlessListener, listenerError := listener.FromMethod(listenerObj, listenerConfig.Listener, methodValue.Interface())
	if nil != listenerError {
		return nil, listenerError
	}

	unbind := func() {
		k.eventBus.Unbind(tag, parameterlessListener)
	}

	return unbind, k.eventBus.BindWithPriority(tag, parameterlessListener, listenerConfig.Priority)
}

// getService turns the container's panic on unknown or broken services into an error
func (k *Kernel) getService(alias string) (serviceObj interface{}, serviceError error) {
	defer func() {
		if recoveredError := recover(); nil != recoveredError {
			serviceError = errors.New(fmt.Sprintf("failed to get service %s: %v", alias, recoveredError))
		}
	}()

	serviceObj = k.container.GetByAlias(alias)
	if nil == serviceObj {
		return nil, errors.New("service " + alias + " not found")
	}

	return serviceObj, nil
}

func (k *Kernel) frameInterval() time.Duration {
	frameInterval := k.config.GetDuration("frame_interval")
	if 0 >= frameInterval {
		frameInterval = configDefaultFrameIntervalMs
	}

	return frameInterval * time.Millisecond
}

func (k *Kernel) shutdownTimeout() time.Duration {
	shutdownTimeout := k.config.GetDuration("shutdown_timeout")
	if 0 >= shutdownTimeout {
		shutdownTimeout = configDefaultShutdownTimeoutMs
	}

	return shutdownTimeout * time.Millisecond
}

//--------------------

func NewKernel(configPath string, options ...Option) (*Kernel, error) {
	// Read config files to temporary viper object
	configObj, configBuildError := helper.BuildConfigFromDir(configPath)
	if nil != configBuildError {
		return nil, configBuildError
	}

	return NewKernelFromConfig(configObj, options...)
}

func NewKernelFromConfig(configObj *viper.Viper, options ...Option) (*Kernel, error) {
	// Creating kernel obj
	kernel := &Kernel{
		config:         viper.New(),
		container:      gioc.NewContainer(),
		eventsRegistry: event_bus.NewDefaultRegistry(),
		dataStore:      datastore.NewStore(),
		clock:          clock.New(),
		routines:       make([]*routine.Routine, 0),
	}

	// Copy known config parts to kernel's viper object
	func(params []string, source, target *viper.Viper) {
		for _, param := range params {
			if source.IsSet(param) {
				target.Set(param, source.Get(param))
			}
		}
	}(
		[]string{"frame_interval", "shutdown_timeout", "http_port", "log", "scene", "services", "event_listeners"},
		configObj,
		kernel.config,
	)

	for _, option := range options {
		option(kernel)
	}

	if nil == kernel.logger {
		logConfig := &config.LogConfig{}
		if kernel.config.IsSet("log") {
			if logConfigError := kernel.config.UnmarshalKey("log", logConfig); nil != logConfigError {
				return nil, errors.New("failed to read log config: " + logConfigError.Error())
			}
		}
		kernel.logger = logConfig.NewLogger(os.Stderr)
	}

	sceneConfig := &config.SceneConfig{}
	if kernel.config.IsSet("scene.name") {
		sceneConfig.Name = kernel.config.GetString("scene.name")
	}
	kernel.scene = scene.NewScene(sceneConfig.SceneName())
	kernel.singletons = singleton.NewRegistry(kernel.scene, kernel.logger)
	kernel.eventBus = event_bus.NewEventBus(kernel.singletons, kernel.logger)

	// The events manager lives in the scene like any other singleton component
	kernel.scene.Spawn(scene.NewObject(EventsManagerObjectName, event_bus.NewManager(kernel.logger)))
	kernel.scene.OnDestroy(kernel.releaseObject)

	if registerError := singleton.Register(kernel.singletons, kernel.dataStore); nil != registerError {
		return nil, registerError
	}

	kernel.diagnostics = diagnostics.NewServer(
		diagnostics.Sources{
			Singletons: kernel.singletons,
			Events:     kernel.eventBus,
			Objects:    kernel.scene,
			Store:      kernel.dataStore,
		},
		kernel.logger,
	)

	// Setting parameters to container
	if configObj.IsSet("parameters") {
		parametersStringMap := configObj.GetStringMapString("parameters")
		kernel.container.SetParameters(parametersStringMap)
	}

	return kernel, nil
}
