//go:build js && wasm

// Package main is the browser build of the shelf. It keeps the reading list
// in window.localStorage and exposes the store to the page as the global
// PocketShelf object. Every export returns a JSON string.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/internal/kv"
	"github.com/mesh-intelligence/pocketshelf/internal/logging"
	"github.com/mesh-intelligence/pocketshelf/internal/shelf"
	"github.com/mesh-intelligence/pocketshelf/pkg/pocketshelf"
	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// Global state
var store *shelf.Store
var logger *zap.Logger

func main() {
	logger = logging.Must(false)

	storage, err := kv.Open(types.Config{Backend: types.BackendLocalStorage})
	if err != nil {
		// Private browsing can deny localStorage; keep the session usable.
		logger.Warn("localStorage unavailable, using memory", zap.Error(err))
		storage = kv.NewMemory()
	}

	store = shelf.New(storage, shelf.WithLogger(logger))
	if err := store.Load(); err != nil {
		logger.Warn("load shelf", zap.Error(err))
	}

	fmt.Println("[PocketShelf] WASM Ready v" + pocketshelf.Version)

	js.Global().Set("PocketShelf", js.ValueOf(map[string]interface{}{
		"version":         js.FuncOf(getVersion),
		"items":           js.FuncOf(items),
		"view":            js.FuncOf(view),
		"addItem":         js.FuncOf(addItem),
		"updateStatus":    js.FuncOf(updateStatus),
		"removeItem":      js.FuncOf(removeItem),
		"toggleFavorite":  js.FuncOf(toggleFavorite),
		"preferences":     js.FuncOf(preferences),
		"setPreferences":  js.FuncOf(setPreferences),
		"saveError":       js.FuncOf(saveError),
		"registerOffline": js.FuncOf(registerOffline),
	}))

	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return pocketshelf.Version
}

// items returns the collection in stored order.
func items(this js.Value, args []js.Value) interface{} {
	return jsonResult(store.Items())
}

// view returns the derived view for the saved preferences.
// Args: [search string (optional)]
func view(this js.Value, args []js.Value) interface{} {
	search := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		search = args[0].String()
	}
	return jsonResult(store.View(search))
}

// addItem creates an item from a draft.
// Args: [draftJSON string] - {title, author?, link?, notes?}
func addItem(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("addItem requires 1 arg: draftJSON")
	}
	var draft types.Draft
	if err := json.Unmarshal([]byte(args[0].String()), &draft); err != nil {
		return errorResult("invalid draft json: " + err.Error())
	}
	item, err := store.AddItem(draft)
	return mutationResult(map[string]interface{}{"item": item}, err)
}

// updateStatus sets an item's status.
// Args: [id string, status string]
func updateStatus(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("updateStatus requires 2 args: id, status")
	}
	id := args[0].String()
	err := store.UpdateStatus(id, types.Status(args[1].String()))
	return mutationResult(map[string]interface{}{"success": "updated " + id}, err)
}

// removeItem deletes an item.
// Args: [id string]
func removeItem(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("removeItem requires 1 arg: id")
	}
	id := args[0].String()
	err := store.RemoveItem(id)
	return mutationResult(map[string]interface{}{"success": "removed " + id}, err)
}

// toggleFavorite flips an item's favorite flag.
// Args: [id string]
func toggleFavorite(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("toggleFavorite requires 1 arg: id")
	}
	id := args[0].String()
	fav, err := store.ToggleFavorite(id)
	return mutationResult(map[string]interface{}{"id": id, "favorite": fav}, err)
}

func preferences(this js.Value, args []js.Value) interface{} {
	return jsonResult(store.Preferences())
}

// setPreferences merges a partial preferences object.
// Args: [patchJSON string] - {sort?, filter?}
func setPreferences(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("setPreferences requires 1 arg: patchJSON")
	}
	var patch types.PreferencesPatch
	if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
		return errorResult("invalid preferences json: " + err.Error())
	}
	prefs, err := store.SetPreferences(patch)
	return mutationResult(map[string]interface{}{"preferences": prefs}, err)
}

// saveError reports the last failed write, or {} when storage is in sync.
func saveError(this js.Value, args []js.Value) interface{} {
	if err := store.SaveErr(); err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(map[string]interface{}{})
}

// registerOffline registers the service worker at path so the page works
// offline. Registration failures are logged and otherwise ignored.
// Args: [path string (optional, default "service-worker.js")]
func registerOffline(this js.Value, args []js.Value) interface{} {
	path := "service-worker.js"
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		path = args[0].String()
	}

	nav := js.Global().Get("navigator")
	if nav.IsUndefined() || nav.IsNull() || nav.Get("serviceWorker").IsUndefined() {
		return successResult("service workers unsupported")
	}

	var onErr js.Func
	onErr = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		defer onErr.Release()
		msg := "unknown"
		if len(args) > 0 {
			if v, err := guard(func() js.Value { return args[0].Call("toString") }); err == nil {
				msg = v.String()
			}
		}
		logger.Warn("service worker registration failed", zap.String("path", path), zap.String("error", msg))
		return nil
	})
	_, err := guard(func() js.Value {
		return nav.Get("serviceWorker").Call("register", path).Call("catch", onErr)
	})
	if err != nil {
		onErr.Release()
		logger.Warn("service worker registration failed", zap.String("path", path), zap.Error(err))
		return successResult("service worker not registered")
	}
	return successResult("registering " + path)
}

// guard runs fn and turns a thrown JS exception into an error instead of
// letting it take down the runtime.
func guard(fn func() js.Value) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("javascript: %v", r)
		}
	}()
	return fn(), nil
}

// Helper: JSON-encode a value
func jsonResult(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult("marshal: " + err.Error())
	}
	return string(jsonBytes)
}

// Helper: Result for a mutation. An applied mutation whose write failed
// still succeeds, with a warning.
func mutationResult(result map[string]interface{}, err error) interface{} {
	switch {
	case err == nil:
	case shelf.IsNotSaved(err):
		result["warning"] = types.ErrNotSaved.Error()
	case errors.Is(err, types.ErrNotFound):
		return errorResult("not found")
	default:
		return errorResult(err.Error())
	}
	return jsonResult(result)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
