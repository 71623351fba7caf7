// Package slot provides durable slot repositories that live outside a
// database: a volatile in-memory map and a directory of JSON files, plus a
// quota decorator that caps the size of any single value.
package slot
