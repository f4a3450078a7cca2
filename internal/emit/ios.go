package emit

import (
	"fmt"
	"strings"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/files"
)

// IOSConfig configures the Objective-C/Swift emitter.
type IOSConfig struct {
	// ClassPrefix is prepended to the capitalised function name.
	ClassPrefix string
	// FrameworkName names the podspec and the bridge namespace.
	FrameworkName string
}

// IOS emits an Objective-C class, a C++ bridge and a Swift wrapper.
type IOS struct {
	cfg IOSConfig
}

// NewIOS returns the emitter, filling blank settings with defaults.
func NewIOS(cfg IOSConfig) *IOS {
	if cfg.ClassPrefix == "" {
		cfg.ClassPrefix = "CPP"
	}
	if cfg.FrameworkName == "" {
		cfg.FrameworkName = "CppBridge"
	}
	return &IOS{cfg: cfg}
}

// Platform implements Emitter.
func (i *IOS) Platform() string { return "ios" }

// ClassName returns the Objective-C class generated for function.
func (i *IOS) ClassName(function string) string {
	return i.cfg.ClassPrefix + capitalize(function)
}

var (
	objcTypes = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindVoid:    "void",
			cppiface.KindBoolean: "BOOL",
			cppiface.KindByte:    "char",
			cppiface.KindShort:   "short",
			cppiface.KindInt:     "int",
			cppiface.KindLong:    "long",
			cppiface.KindFloat:   "float",
			cppiface.KindDouble:  "double",
			cppiface.KindString:  "NSString*",
		},
		opaque: "id",
	}
	swiftTypes = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindVoid:    "Void",
			cppiface.KindBoolean: "Bool",
			cppiface.KindByte:    "Int8",
			cppiface.KindShort:   "Int16",
			cppiface.KindInt:     "Int32",
			cppiface.KindLong:    "Int64",
			cppiface.KindFloat:   "Float",
			cppiface.KindDouble:  "Double",
			cppiface.KindString:  "String",
		},
		opaque: "Any",
	}
	objcDefaults = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindBoolean: "NO",
			cppiface.KindByte:    "0",
			cppiface.KindShort:   "0",
			cppiface.KindInt:     "0",
			cppiface.KindLong:    "0",
			cppiface.KindFloat:   "0.0f",
			cppiface.KindDouble:  "0.0",
		},
		opaque: "nil",
	}
	cppDefaults = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindBoolean: "false",
			cppiface.KindByte:    "0",
			cppiface.KindShort:   "0",
			cppiface.KindInt:     "0",
			cppiface.KindLong:    "0",
			cppiface.KindFloat:   "0.0f",
			cppiface.KindDouble:  "0.0",
			cppiface.KindString:  "std::string()",
		},
		opaque: "{}",
	}
)

type iosParam struct {
	Name      string
	ObjCType  string
	Attribute string
	Default   string
}

type iosView struct {
	Class     string
	Framework string
	BridgeNS  string
	Function  string
	Include   string
	Call      string
	Void      bool
	StringRet bool

	ObjCReturn  string
	SwiftReturn string
	CppReturn   string
	CppDefault  string

	Params []iosParam
	// Selector is the method tail after the name, e.g. ":(int)a b:(int)b".
	Selector   string
	CppParams  string
	Args       string
	BridgeCall string
	SwiftDecl  string
	SwiftArgs  string
}

func (i *IOS) view(pi *cppiface.ParsedInterface) iosView {
	bridgeNS := strings.ToLower(i.cfg.FrameworkName) + "Bridge"
	v := iosView{
		Class:       i.ClassName(pi.FunctionName),
		Framework:   i.cfg.FrameworkName,
		BridgeNS:    bridgeNS,
		Function:    pi.FunctionName,
		Include:     includeLine(pi),
		Call:        pi.QualifiedName(),
		Void:        pi.ReturnsVoid(),
		StringRet:   pi.ReturnType.Is(cppiface.KindString),
		ObjCReturn:  objcTypes.name(pi.ReturnType),
		SwiftReturn: swiftTypes.name(pi.ReturnType),
		CppReturn:   cppType(pi.ReturnType),
		CppDefault:  cppDefaults.name(pi.ReturnType),
		Args:        paramNames(pi),
	}

	var selector, cppParams, bridgeArgs, swiftDecl, swiftArgs []string
	for n, p := range pi.Parameters {
		objc := objcTypes.name(p.Type)
		attr := "assign"
		if p.Type.Is(cppiface.KindString) || p.Type.IsOpaque() {
			attr = "strong"
		}
		v.Params = append(v.Params, iosParam{
			Name:      p.Name,
			ObjCType:  objc,
			Attribute: attr,
			Default:   objcDefaults.name(p.Type),
		})

		if n == 0 {
			selector = append(selector, fmt.Sprintf(":(%s)%s", objc, p.Name))
			swiftDecl = append(swiftDecl, fmt.Sprintf("_ %s: %s", p.Name, swiftTypes.name(p.Type)))
			swiftArgs = append(swiftArgs, p.Name)
		} else {
			selector = append(selector, fmt.Sprintf("%s:(%s)%s", p.Name, objc, p.Name))
			swiftDecl = append(swiftDecl, fmt.Sprintf("%s: %s", p.Name, swiftTypes.name(p.Type)))
			swiftArgs = append(swiftArgs, p.Name+": "+p.Name)
		}

		cppParams = append(cppParams, cppType(p.Type)+" "+p.Name)
		if p.Type.Is(cppiface.KindString) {
			bridgeArgs = append(bridgeArgs, fmt.Sprintf("std::string([%s UTF8String])", p.Name))
		} else {
			bridgeArgs = append(bridgeArgs, p.Name)
		}
	}
	v.Selector = strings.Join(selector, " ")
	v.CppParams = strings.Join(cppParams, ", ")
	v.BridgeCall = fmt.Sprintf("%s::%sBridge(%s)", bridgeNS, pi.FunctionName, strings.Join(bridgeArgs, ", "))
	v.SwiftDecl = strings.Join(swiftDecl, ", ")
	v.SwiftArgs = strings.Join(swiftArgs, ", ")
	return v
}

// Emit implements Emitter.
func (i *IOS) Emit(pi *cppiface.ParsedInterface, w files.Writer) ([]string, error) {
	class := i.ClassName(pi.FunctionName)
	return writeFiles(w, i.view(pi), []file{
		{path: "ios/" + class + ".h", tmpl: objcHeaderTmpl},
		{path: "ios/" + class + ".m", tmpl: objcImplTmpl},
		{path: "ios/" + class + "Bridge.hpp", tmpl: bridgeHeaderTmpl},
		{path: "ios/" + class + "Bridge.cpp", tmpl: bridgeImplTmpl},
		{path: "ios/" + class + "Swift.swift", tmpl: swiftTmpl},
		{path: "ios/" + i.cfg.FrameworkName + ".podspec", tmpl: podspecTmpl},
		{path: "ios/Config.xcconfig", tmpl: xcconfigTmpl},
	})
}

var objcHeaderTmpl = mustTemplate("objc.h", `//
//  {{.Class}}.h
//  {{.Framework}}
//
//  Generated automatically - do not modify
//

#import <Foundation/Foundation.h>

NS_ASSUME_NONNULL_BEGIN

/**
 * Objective-C wrapper for {{.Function}}
 */
@interface {{.Class}} : NSObject
{{range .Params}}
@property (nonatomic, {{.Attribute}}) {{.ObjCType}} {{.Name}};
{{- end}}

- (instancetype)init;

- ({{.ObjCReturn}}){{.Function}}{{.Selector}};

+ ({{.ObjCReturn}}){{.Function}}{{.Selector}};

@end

NS_ASSUME_NONNULL_END
`)

var objcImplTmpl = mustTemplate("objc.m", `{{define "body" -}}
{{if .StringRet}}    return [NSString stringWithUTF8String:{{.BridgeCall}}.c_str()];
{{- else if .Void}}    {{.BridgeCall}};
{{- else}}    return {{.BridgeCall}};
{{- end}}
{{- end -}}
//
//  {{.Class}}.m
//  {{.Framework}}
//
//  Generated automatically - do not modify
//

#import "{{.Class}}.h"
#import "{{.Class}}Bridge.hpp"

@implementation {{.Class}}

- (instancetype)init {
    self = [super init];
    if (self) {
{{- range .Params}}
        _{{.Name}} = {{.Default}};
{{- end}}
    }
    return self;
}

- ({{.ObjCReturn}}){{.Function}}{{.Selector}} {
{{template "body" .}}
}

+ ({{.ObjCReturn}}){{.Function}}{{.Selector}} {
{{template "body" .}}
}

@end
`)

var bridgeHeaderTmpl = mustTemplate("bridge.hpp", `//
//  {{.Class}}Bridge.hpp
//  {{.Framework}}
//
//  Generated automatically - do not modify
//

#ifndef {{.Class}}Bridge_hpp
#define {{.Class}}Bridge_hpp

#include <string>
{{.Include}}

namespace {{.BridgeNS}} {

/**
 * C++ bridge function for {{.Function}}
 */
{{.CppReturn}} {{.Function}}Bridge({{.CppParams}});

std::string NSStringToStdString(void* nsstring);
void* StdStringToNSString(const std::string& str);

} // namespace {{.BridgeNS}}

#endif /* {{.Class}}Bridge_hpp */
`)

var bridgeImplTmpl = mustTemplate("bridge.cpp", `//
//  {{.Class}}Bridge.cpp
//  {{.Framework}}
//
//  Generated automatically - do not modify
//

#include "{{.Class}}Bridge.hpp"
#import <Foundation/Foundation.h>

namespace {{.BridgeNS}} {

{{.CppReturn}} {{.Function}}Bridge({{.CppParams}}) {
    try {
        {{if not .Void}}return {{end}}{{.Call}}({{.Args}});
    } catch (const std::exception& e) {
        NSLog(@"Error in {{.Function}}: %s", e.what());
        return{{if not .Void}} {{.CppDefault}}{{end}};
    }
}

std::string NSStringToStdString(void* nsstring) {
    NSString* str = (__bridge NSString*)nsstring;
    return std::string([str UTF8String]);
}

void* StdStringToNSString(const std::string& str) {
    NSString* nsstr = [NSString stringWithUTF8String:str.c_str()];
    return (__bridge_retained void*)nsstr;
}

} // namespace {{.BridgeNS}}
`)

var swiftTmpl = mustTemplate("wrapper.swift", `//
//  {{.Class}}Swift.swift
//  {{.Framework}}
//
//  Generated automatically - do not modify
//

import Foundation

/**
 * Swift wrapper for {{.Function}}
 */
public class {{.Class}}Swift {

    private let objcWrapper: {{.Class}}

    public init() {
        self.objcWrapper = {{.Class}}()
    }

    public func {{.Function}}({{.SwiftDecl}}){{if not .Void}} -> {{.SwiftReturn}}{{end}} {
        {{if not .Void}}return {{end}}objcWrapper.{{.Function}}({{.SwiftArgs}})
    }

    public static func {{.Function}}({{.SwiftDecl}}){{if not .Void}} -> {{.SwiftReturn}}{{end}} {
        {{if not .Void}}return {{end}}{{.Class}}.{{.Function}}({{.SwiftArgs}})
    }
}
`)

var podspecTmpl = mustTemplate("podspec", `Pod::Spec.new do |spec|
  spec.name          = "{{.Framework}}"
  spec.version       = "1.0.0"
  spec.summary       = "C++ bridge framework for {{.Function}}"
  spec.description   = "Generated iOS framework for calling C++ functions from Objective-C and Swift"

  spec.homepage      = "https://github.com/yourorg/{{lower .Framework}}"
  spec.license       = { :type => "MIT", :file => "LICENSE" }
  spec.author        = { "Your Name" => "your.email@example.com" }

  spec.ios.deployment_target = "11.0"
  spec.osx.deployment_target = "10.13"

  spec.source        = { :git => "https://github.com/yourorg/{{lower .Framework}}.git", :tag => "#{spec.version}" }

  spec.source_files  = "ios/*.{h,m,hpp,cpp}"
  spec.public_header_files = "ios/*.h"

  spec.requires_arc = true
  spec.libraries = "c++"
  spec.pod_target_xcconfig = {
    'CLANG_CXX_LANGUAGE_STANDARD' => 'c++17',
    'CLANG_CXX_LIBRARY' => 'libc++'
  }
end
`)

var xcconfigTmpl = mustTemplate("xcconfig", `// Xcode configuration for the C++ bridge
CLANG_CXX_LANGUAGE_STANDARD = c++17
CLANG_CXX_LIBRARY = libc++
GCC_C_LANGUAGE_STANDARD = c11
ENABLE_BITCODE = NO

HEADER_SEARCH_PATHS = $(inherited) ./ios
LIBRARY_SEARCH_PATHS = $(inherited)
OTHER_CPLUSPLUSFLAGS = -std=c++17 -stdlib=libc++
GCC_PREPROCESSOR_DEFINITIONS = $(inherited)
`)
