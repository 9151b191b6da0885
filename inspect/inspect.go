// Package inspect converts framed messages to shape-core AST nodes and back,
// and dumps them as YAML or JSON for debugging.
//
// A request maps to
//
//	{ "type": "request", "method": "POST", "path": "/echo",
//	  "version": "HTTP/1.1",
//	  "headers": [{"key": "Host", "value": "example.com"}, ...],
//	  "body": "..." }
//
// and a response to
//
//	{ "type": "response", "version": "HTTP/1.1", "statusCode": 200,
//	  "reason": "OK", "headers": [...], "body": "..." }
//
// Headers are listed in ascending key order.
package inspect

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/shapestone/shape-core/pkg/ast"
	"gopkg.in/yaml.v3"

	"github.com/freekieb7/hearth/http"
)

var zeroPos = ast.Position{}

// Parse frames data as a response when it starts with "HTTP/", otherwise as a
// request, and returns its AST.
func Parse(data []byte) (ast.SchemaNode, error) {
	if bytes.HasPrefix(data, []byte("HTTP/")) {
		res, err := http.ParseResponse(data)
		if err != nil {
			return nil, err
		}
		return ResponseToNode(res), nil
	}

	req, err := http.ParseRequest(data)
	if err != nil {
		return nil, err
	}
	return RequestToNode(req), nil
}

func RequestToNode(req *http.Request) ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"method":  ast.NewLiteralNode(req.Method().String(), zeroPos),
		"path":    ast.NewLiteralNode(req.Path(), zeroPos),
		"version": ast.NewLiteralNode(req.Version().String(), zeroPos),
		"headers": headersToNode(req.Headers()),
		"body":    ast.NewLiteralNode(string(req.Body()), zeroPos),
	}, zeroPos)
}

func ResponseToNode(res *http.Response) ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode("response", zeroPos),
		"version":    ast.NewLiteralNode(res.Version().String(), zeroPos),
		"statusCode": ast.NewLiteralNode(int64(res.Status()), zeroPos),
		"reason":     ast.NewLiteralNode(res.Status().Text(), zeroPos),
		"headers":    headersToNode(res.Headers()),
		"body":       ast.NewLiteralNode(string(res.Body()), zeroPos),
	}, zeroPos)
}

func headersToNode(headers http.Headers) ast.SchemaNode {
	keys := headers.Keys()
	elements := make([]ast.SchemaNode, len(keys))
	for i, key := range keys {
		elements[i] = ast.NewObjectNode(map[string]ast.SchemaNode{
			"key":   ast.NewLiteralNode(key, zeroPos),
			"value": ast.NewLiteralNode(headers[key], zeroPos),
		}, zeroPos)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

// NodeToRequest rebuilds a request from its AST. The body is kept verbatim.
func NodeToRequest(node ast.SchemaNode) (*http.Request, error) {
	props, err := properties(node)
	if err != nil {
		return nil, err
	}
	headers, err := nodeToHeaders(props["headers"])
	if err != nil {
		return nil, err
	}

	var wire []byte
	wire = fmt.Appendf(wire, "%s %s %s\r\n", stringProp(props, "method"), stringProp(props, "path"), stringProp(props, "version"))
	wire = appendHeaderBlock(wire, headers)
	wire = append(wire, stringProp(props, "body")...)
	return http.ParseRequest(wire)
}

// NodeToResponse rebuilds a response from its AST. The body is kept verbatim.
func NodeToResponse(node ast.SchemaNode) (*http.Response, error) {
	props, err := properties(node)
	if err != nil {
		return nil, err
	}
	headers, err := nodeToHeaders(props["headers"])
	if err != nil {
		return nil, err
	}

	var code int
	if lit, ok := props["statusCode"].(*ast.LiteralNode); ok {
		switch v := lit.Value().(type) {
		case int64:
			code = int(v)
		case float64:
			code = int(v)
		case string:
			code, _ = strconv.Atoi(v)
		}
	}

	var wire []byte
	wire = fmt.Appendf(wire, "%s %d\r\n", stringProp(props, "version"), code)
	wire = appendHeaderBlock(wire, headers)
	wire = append(wire, stringProp(props, "body")...)
	return http.ParseResponse(wire)
}

func properties(node ast.SchemaNode) (map[string]ast.SchemaNode, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("expected ObjectNode, got %T", node)
	}
	return obj.Properties(), nil
}

func stringProp(props map[string]ast.SchemaNode, key string) string {
	if lit, ok := props[key].(*ast.LiteralNode); ok {
		s, _ := lit.Value().(string)
		return s
	}
	return ""
}

type header struct{ key, value string }

func nodeToHeaders(node ast.SchemaNode) ([]header, error) {
	if node == nil {
		return nil, nil
	}
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected ArrayDataNode for headers, got %T", node)
	}

	var headers []header
	for _, elem := range arr.Elements() {
		obj, ok := elem.(*ast.ObjectNode)
		if !ok {
			continue
		}
		props := obj.Properties()
		headers = append(headers, header{key: stringProp(props, "key"), value: stringProp(props, "value")})
	}
	return headers, nil
}

func appendHeaderBlock(dst []byte, headers []header) []byte {
	for _, h := range headers {
		dst = append(dst, h.key...)
		dst = append(dst, ": "...)
		dst = append(dst, h.value...)
		dst = append(dst, "\r\n"...)
	}
	return append(dst, "\r\n"...)
}

// ToValue converts an AST into plain maps, slices and scalars.
func ToValue(node ast.SchemaNode) any {
	switch n := node.(type) {
	case *ast.ObjectNode:
		props := n.Properties()
		out := make(map[string]any, len(props))
		for k, v := range props {
			out[k] = ToValue(v)
		}
		return out
	case *ast.ArrayDataNode:
		elements := n.Elements()
		out := make([]any, len(elements))
		for i, v := range elements {
			out[i] = ToValue(v)
		}
		return out
	case *ast.LiteralNode:
		return n.Value()
	default:
		return nil
	}
}

func WriteYAML(w io.Writer, node ast.SchemaNode) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToValue(node)); err != nil {
		return err
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, node ast.SchemaNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToValue(node))
}
