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
	"fmt"
	"sync"
	"time"

	"github.com/riverql/riverql/dataloader"
	"github.com/riverql/riverql/internal/util"
	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
)

// Widget is the demo schema's only "real" domain object, resolved through widgetLoader so that a
// query selecting several widgets by id exercises dataloader batching instead of issuing one load
// per widget.
type Widget struct {
	ID   string
	Name string
	Mass float64
}

var demoWidgets = map[string]*Widget{
	"1": {ID: "1", Name: "bolt", Mass: 0.02},
	"2": {ID: "2", Name: "gasket", Mass: 0.01},
	"3": {ID: "3", Name: "flywheel", Mass: 4.5},
}

// Widget's fields are resolved explicitly rather than through schema.ReflectFieldResolver, since
// "id" would otherwise camel-case to a Go field named "Id" and collide with the conventional
// Go spelling "ID".
var widgetType = schema.NewObject(schema.ObjectConfig{
	Name: "Widget",
	// Written indented to match the surrounding code and dedented at init time, the way a
	// multi-line SDL description reads in source without every continuation line fighting the
	// Go formatter.
	Description: util.Dedent(`
		A small mechanical part in the demo inventory, looked up by id through widgetLoader so a
		query selecting several widgets at once exercises dataloader batching instead of issuing
		one load per widget.
	`),
	Fields: func() schema.FieldConfigMap {
		return schema.FieldConfigMap{
			"id": {
				Type: schema.NonNullOf(schema.ID),
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					return source.(*Widget).ID, nil
				}),
			},
			"name": {
				Type: schema.NonNullOf(schema.String),
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					return source.(*Widget).Name, nil
				}),
			},
			"mass": {
				Type: schema.NonNullOf(schema.Float),
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					return source.(*Widget).Mass, nil
				}),
			},
		}
	},
})

// tickerStream emits an incrementing count every interval, forever, until unsubscribed -- the
// reactive counterpart to a resolver that would otherwise only ever return a single value.
type tickerStream struct {
	interval time.Duration
}

type tickerSubscription struct {
	done chan struct{}
	once sync.Once
}

func (s *tickerSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.done) })
}

func (s *tickerStream) Subscribe(observer stream.Observer) stream.Subscription {
	sub := &tickerSubscription{done: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		count := 0
		for {
			select {
			case <-sub.done:
				return
			case <-ticker.C:
				count++
				observer.Next(count)
			}
		}
	}()

	return sub
}

// queryType is the demo schema's root Query type.
var queryType = schema.NewObject(schema.ObjectConfig{
	Name: "Query",
	Fields: func() schema.FieldConfigMap {
		return schema.FieldConfigMap{
			"echo": {
				Type: schema.NonNullOf(schema.String),
				Args: schema.ArgumentConfigMap{
					"message": {Type: schema.NonNullOf(schema.String)},
				},
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					return args.Get("message"), nil
				}),
			},
			"widget": {
				Type: widgetType,
				Args: schema.ArgumentConfigMap{
					"id": {Type: schema.NonNullOf(schema.ID)},
				},
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					loader, err := widgetLoaderFromContext(info)
					if err != nil {
						return nil, err
					}
					return loader.Load(args.Get("id"))
				}),
			},
			"widgets": {
				Type: schema.ListOf(widgetType),
				Args: schema.ArgumentConfigMap{
					"ids": {Type: schema.NonNullOf(schema.ListOf(schema.NonNullOf(schema.ID)))},
				},
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					loader, err := widgetLoaderFromContext(info)
					if err != nil {
						return nil, err
					}
					ids, _ := args.Get("ids").([]interface{})
					keys := make([]dataloader.Key, len(ids))
					for i, id := range ids {
						keys[i] = id
					}
					return loader.LoadMany(dataloader.KeysFromArray(keys...))
				}),
			},
			"counter": {
				Description: "A reactive field: emits an incrementing count once a second for as long as the operation stays subscribed.",
				Type:        schema.NonNullOf(schema.Int),
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					return &tickerStream{interval: time.Second}, nil
				}),
			},
		}
	},
})

// mutationType is the demo schema's root Mutation type.
var mutationType = schema.NewObject(schema.ObjectConfig{
	Name: "Mutation",
	Fields: func() schema.FieldConfigMap {
		return schema.FieldConfigMap{
			"renameWidget": {
				Type: widgetType,
				Args: schema.ArgumentConfigMap{
					"id":   {Type: schema.NonNullOf(schema.ID)},
					"name": {Type: schema.NonNullOf(schema.String)},
				},
				Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
					id, _ := args.Get("id").(string)
					w, ok := demoWidgets[id]
					if !ok {
						return nil, fmt.Errorf("no widget with id %q", id)
					}
					w.Name, _ = args.Get("name").(string)
					return w, nil
				}),
			},
		}
	},
})

// newDemoSchema builds the schema served by riverqld.
func newDemoSchema() (*schema.Schema, error) {
	return schema.New(schema.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
