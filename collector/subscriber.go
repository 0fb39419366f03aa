package collector

// Subscriber handles event subscriptions.
type Subscriber struct {
	runStartedHandler      func(RunStarted)
	topologyFetchedHandler func(TopologyFetched)
	joinedHandler          func(Joined)
	nodeEnrichedHandler    func(NodeEnriched)
	exportedHandler        func(Exported)
	runCompletedHandler    func(RunCompleted)
	runFailedHandler       func(RunFailed)
}

// OnRunStarted sets the handler for RunStarted events
func OnRunStarted(fn func(RunStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.runStartedHandler = fn }
}

// OnTopologyFetched sets the handler for TopologyFetched events
func OnTopologyFetched(fn func(TopologyFetched)) func(*Subscriber) {
	return func(s *Subscriber) { s.topologyFetchedHandler = fn }
}

// OnJoined sets the handler for Joined events
func OnJoined(fn func(Joined)) func(*Subscriber) {
	return func(s *Subscriber) { s.joinedHandler = fn }
}

// OnNodeEnriched sets the handler for NodeEnriched events
func OnNodeEnriched(fn func(NodeEnriched)) func(*Subscriber) {
	return func(s *Subscriber) { s.nodeEnrichedHandler = fn }
}

// OnExported sets the handler for Exported events
func OnExported(fn func(Exported)) func(*Subscriber) {
	return func(s *Subscriber) { s.exportedHandler = fn }
}

// OnRunCompleted sets the handler for RunCompleted events
func OnRunCompleted(fn func(RunCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.runCompletedHandler = fn }
}

// OnRunFailed sets the handler for RunFailed events
func OnRunFailed(fn func(RunFailed)) func(*Subscriber) {
	return func(s *Subscriber) { s.runFailedHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and returns its dispatch
// function, ready to be passed to WithEventHandler.
//
// Example:
//
//	handler := collector.NewSubscriber(
//	  collector.OnJoined(func(e collector.Joined) { ... }),
//	)
//	svc := collector.NewService(topology, geo, exporters, collector.WithEventHandler(handler))
//
// Events without a registered handler are ignored.
func NewSubscriber(opts ...func(*Subscriber)) func(Event) {
	s := &Subscriber{
		runStartedHandler:      func(RunStarted) {},      // nop by default
		topologyFetchedHandler: func(TopologyFetched) {}, // nop by default
		joinedHandler:          func(Joined) {},          // nop by default
		nodeEnrichedHandler:    func(NodeEnriched) {},    // nop by default
		exportedHandler:        func(Exported) {},        // nop by default
		runCompletedHandler:    func(RunCompleted) {},    // nop by default
		runFailedHandler:       func(RunFailed) {},       // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	return s.dispatch
}

func (s *Subscriber) dispatch(ev Event) {
	switch e := ev.(type) {
	case RunStarted:
		s.runStartedHandler(e)
	case TopologyFetched:
		s.topologyFetchedHandler(e)
	case Joined:
		s.joinedHandler(e)
	case NodeEnriched:
		s.nodeEnrichedHandler(e)
	case Exported:
		s.exportedHandler(e)
	case RunCompleted:
		s.runCompletedHandler(e)
	case RunFailed:
		s.runFailedHandler(e)
	}
}
