/**
 * Copyright (c) 2024, The riverql Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/riverql/riverql/dataloader"
	"github.com/riverql/riverql/schema"
)

const widgetLoaderKey = "Widget"

// demoAppContext is the AppContext value threaded into every resolver for one connection: a fresh
// dataloader.Manager per connection_init, plus a goroutine that dispatches every registered loader
// on a short, fixed tick so that concurrently-resolved sibling fields (spec.md's modeRead fan-out,
// notably) land in the same batch.
type demoAppContext struct {
	loaders *dataloader.Manager
}

const dispatchTick = 2 * time.Millisecond

func newDemoAppContext(ctx context.Context, logger logrus.FieldLogger) *demoAppContext {
	appCtx := &demoAppContext{loaders: &dataloader.Manager{}}

	go func() {
		ticker := time.NewTicker(dispatchTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				appCtx.loaders.DispatchAll(ctx)
			}
		}
	}()

	return appCtx
}

func widgetLoaderFromContext(info schema.ResolveInfo) (*dataloader.DataLoader, error) {
	appCtx, ok := info.AppContext().(*demoAppContext)
	if !ok {
		return nil, fmt.Errorf("riverqld: no demo app context available for %q.%q", info.Object().Name(), info.Field().Name())
	}
	return appCtx.loaders.GetOrCreate(&dataloader.RegisterInfo{
		Key:     widgetLoaderKey,
		Factory: dataloader.FactoryFunc(newWidgetLoader),
	})
}

// newWidgetLoader builds the DataLoader that batches widget lookups by id. Every key given in one
// batch is looked up against demoWidgets in a single pass, regardless of how many fields in the
// operation asked for a widget.
func newWidgetLoader() (*dataloader.DataLoader, error) {
	return dataloader.New(dataloader.Config{
		BatchLoader: dataloader.BatchLoadFunc(func(ctx context.Context, tasks *dataloader.TaskList) {
			for iter, end := tasks.Begin(), tasks.End(); iter != end; iter = iter.Next() {
				task := iter.Task
				id, _ := task.Key().(string)
				if w, ok := demoWidgets[id]; ok {
					task.Complete(w)
				} else {
					task.SetError(fmt.Errorf("no widget with id %q", id))
				}
			}
		}),
	})
}
