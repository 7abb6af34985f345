package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Stopper is a background worker the application stops on shutdown.
type Stopper interface {
	Stop()
}
