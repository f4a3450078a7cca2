package emit

import (
	"fmt"
	"strings"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/files"
)

// HarmonyConfig configures the NAPI emitter.
type HarmonyConfig struct {
	// ModuleName is the native module and library name.
	ModuleName string
	// Namespace is the TypeScript declaration namespace.
	Namespace string
}

// Harmony emits HarmonyOS NAPI glue with TypeScript and ArkTS wrappers.
type Harmony struct {
	cfg HarmonyConfig
}

// NewHarmony returns the emitter, filling blank settings with defaults.
func NewHarmony(cfg HarmonyConfig) *Harmony {
	if cfg.ModuleName == "" {
		cfg.ModuleName = "CppBridge"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "cppbridge"
	}
	return &Harmony{cfg: cfg}
}

// Platform implements Emitter.
func (h *Harmony) Platform() string { return "harmony" }

var tsTypes = typeTable{
	names: map[cppiface.Kind]string{
		cppiface.KindVoid:    "void",
		cppiface.KindBoolean: "boolean",
		cppiface.KindByte:    "number",
		cppiface.KindShort:   "number",
		cppiface.KindInt:     "number",
		cppiface.KindLong:    "number",
		cppiface.KindFloat:   "number",
		cppiface.KindDouble:  "number",
		cppiface.KindString:  "string",
	},
	opaque: "any",
}

// napiArg returns the statements converting args[i] into a C++ local
// named after p. Lines after the first carry their own indentation.
func napiArg(i int, p cppiface.Parameter) string {
	n := p.Name
	const indent = "\n        "
	switch p.Type.Kind {
	case cppiface.KindBoolean:
		return fmt.Sprintf("bool %s;"+indent+"napi_get_value_bool(env, args[%d], &%s);", n, i, n)
	case cppiface.KindByte, cppiface.KindShort:
		return fmt.Sprintf("int32_t %s_i32;"+indent+"napi_get_value_int32(env, args[%d], &%s_i32);"+indent+"%s %s = static_cast<%s>(%s_i32);",
			n, i, n, cppType(p.Type), n, cppType(p.Type), n)
	case cppiface.KindInt:
		return fmt.Sprintf("int32_t %s;"+indent+"napi_get_value_int32(env, args[%d], &%s);", n, i, n)
	case cppiface.KindLong:
		return fmt.Sprintf("int64_t %s;"+indent+"napi_get_value_int64(env, args[%d], &%s);", n, i, n)
	case cppiface.KindFloat:
		return fmt.Sprintf("double %s_double;"+indent+"napi_get_value_double(env, args[%d], &%s_double);"+indent+"float %s = static_cast<float>(%s_double);",
			n, i, n, n, n)
	case cppiface.KindDouble:
		return fmt.Sprintf("double %s;"+indent+"napi_get_value_double(env, args[%d], &%s);", n, i, n)
	case cppiface.KindString:
		return fmt.Sprintf("size_t %s_len = 0;"+indent+
			"napi_get_value_string_utf8(env, args[%d], nullptr, 0, &%s_len);"+indent+
			"std::string %s(%s_len + 1, '\\0');"+indent+
			"napi_get_value_string_utf8(env, args[%d], &%s[0], %s_len + 1, &%s_len);"+indent+
			"%s.resize(%s_len);",
			n, i, n, n, n, i, n, n, n, n, n)
	default:
		return fmt.Sprintf("// %s (%s) has no NAPI conversion; unwrap args[%d] by hand", n, p.Type.Raw, i)
	}
}

// napiReturn returns the statements converting result back to a napi_value.
func napiReturn(t cppiface.Type) string {
	const indent = "\n        "
	var create string
	switch t.Kind {
	case cppiface.KindVoid:
		return "return nullptr;"
	case cppiface.KindBoolean:
		create = "napi_get_boolean(env, result, &napiResult);"
	case cppiface.KindByte, cppiface.KindShort, cppiface.KindInt:
		create = "napi_create_int32(env, result, &napiResult);"
	case cppiface.KindLong:
		create = "napi_create_int64(env, result, &napiResult);"
	case cppiface.KindFloat, cppiface.KindDouble:
		create = "napi_create_double(env, result, &napiResult);"
	case cppiface.KindString:
		create = "napi_create_string_utf8(env, result.c_str(), NAPI_AUTO_LENGTH, &napiResult);"
	default:
		return fmt.Sprintf("// %s has no NAPI conversion"+indent+"(void)result;"+indent+"return nullptr;", t.Raw)
	}
	return "napi_value napiResult;" + indent + create + indent + "return napiResult;"
}

type harmonyView struct {
	Module    string
	Library   string
	Namespace string
	Function  string
	Bridge    string
	Include   string
	Call      string
	Void      bool

	Argc        int
	ArgvLen     int
	Conversions []string
	Return      string

	TSReturn string
	TSParams string
	Args     string
}

func (h *Harmony) view(pi *cppiface.ParsedInterface) harmonyView {
	v := harmonyView{
		Module:    h.cfg.ModuleName,
		Library:   strings.ToLower(h.cfg.ModuleName),
		Namespace: h.cfg.Namespace,
		Function:  pi.FunctionName,
		Bridge:    capitalize(pi.FunctionName) + "Bridge",
		Include:   includeLine(pi),
		Call:      pi.QualifiedName(),
		Void:      pi.ReturnsVoid(),
		Argc:      len(pi.Parameters),
		ArgvLen:   max(len(pi.Parameters), 1),
		Return:    napiReturn(pi.ReturnType),
		TSReturn:  tsTypes.name(pi.ReturnType),
		Args:      paramNames(pi),
	}
	ts := make([]string, 0, len(pi.Parameters))
	for i, p := range pi.Parameters {
		v.Conversions = append(v.Conversions, napiArg(i, p))
		ts = append(ts, p.Name+": "+tsTypes.name(p.Type))
	}
	v.TSParams = strings.Join(ts, ", ")
	return v
}

// Emit implements Emitter.
func (h *Harmony) Emit(pi *cppiface.ParsedInterface, w files.Writer) ([]string, error) {
	return writeFiles(w, h.view(pi), []file{
		{path: "harmony/src/main/cpp/napi/" + pi.FunctionName + "_napi.cpp", tmpl: napiSourceTmpl},
		{path: "harmony/src/main/cpp/napi/" + pi.FunctionName + "_napi.h", tmpl: napiHeaderTmpl},
		{path: "harmony/src/main/cpp/napi/napi_init.cpp", tmpl: napiInitTmpl},
		{path: "harmony/src/main/ets/types/" + h.cfg.ModuleName + ".d.ts", tmpl: tsDeclTmpl},
		{path: "harmony/src/main/ets/" + h.cfg.ModuleName + ".ets", tmpl: arktsTmpl},
		{path: "harmony/src/main/cpp/CMakeLists.txt", tmpl: napiCMakeTmpl},
		{path: "harmony/oh-package.json5", tmpl: ohPackageTmpl},
		{path: "harmony/build-profile.json5", tmpl: buildProfileTmpl},
	})
}

var napiSourceTmpl = mustTemplate("napi.cpp", `#include "{{.Function}}_napi.h"
#include <string>
#include <hilog/log.h>
{{.Include}}

static constexpr unsigned int LOG_PRINT_DOMAIN = 0xFF00;
static constexpr char LOG_TAG[] = "{{.Module}}";

napi_value NAPI_{{.Function}}(napi_env env, napi_callback_info info) {
    size_t argc = {{.Argc}};
    napi_value args[{{.ArgvLen}}];
    napi_value thisVar = nullptr;

    napi_status status = napi_get_cb_info(env, info, &argc, args, &thisVar, nullptr);
    if (status != napi_ok) {
        napi_throw_error(env, nullptr, "Failed to parse arguments");
        return nullptr;
    }

    if (argc != {{.Argc}}) {
        napi_throw_error(env, nullptr, "Wrong number of arguments");
        return nullptr;
    }

    try {
{{- range .Conversions}}
        {{.}}
{{- end}}

        {{if not .Void}}auto result = {{end}}{{.Call}}({{.Args}});
        {{.Return}}
    } catch (const std::exception& e) {
        OH_LOG_Print(LOG_APP, LOG_ERROR, LOG_PRINT_DOMAIN, LOG_TAG, "Error in {{.Function}}: %{public}s", e.what());
        napi_throw_error(env, nullptr, e.what());
        return nullptr;
    }
}
`)

var napiHeaderTmpl = mustTemplate("napi.h", `#ifndef {{upper .Function}}_NAPI_H
#define {{upper .Function}}_NAPI_H

#include "napi/native_api.h"

/**
 * NAPI wrapper for {{.Function}}
 */
napi_value NAPI_{{.Function}}(napi_env env, napi_callback_info info);

#endif // {{upper .Function}}_NAPI_H
`)

var napiInitTmpl = mustTemplate("napi_init.cpp", `#include "napi/native_api.h"
#include "{{.Function}}_napi.h"

static napi_value Init(napi_env env, napi_value exports) {
    napi_property_descriptor desc[] = {
        { "{{.Function}}", nullptr, NAPI_{{.Function}}, nullptr, nullptr, nullptr, napi_default, nullptr }
    };

    napi_status status = napi_define_properties(env, exports, sizeof(desc) / sizeof(desc[0]), desc);
    if (status != napi_ok) {
        return nullptr;
    }
    return exports;
}

static napi_module {{.Library}}Module = {
    .nm_version = 1,
    .nm_flags = 0,
    .nm_filename = nullptr,
    .nm_register_func = Init,
    .nm_modname = "{{.Library}}",
    .nm_priv = ((void*)0),
    .reserved = { 0 },
};

extern "C" __attribute__((constructor)) void RegisterModule(void) {
    napi_module_register(&{{.Library}}Module);
}
`)

var tsDeclTmpl = mustTemplate("d.ts", `/**
 * TypeScript declaration for {{.Module}}
 * Generated automatically - do not modify
 */

declare namespace {{.Namespace}} {
  function {{.Function}}({{.TSParams}}): {{.TSReturn}};
}

export = {{.Namespace}};
`)

var arktsTmpl = mustTemplate("ets", `/**
 * ArkTS wrapper for {{.Function}}
 * Generated automatically - do not modify
 */

import {{.Module}} from 'lib{{.Library}}.so';

export class {{.Bridge}} {

  static {{.Function}}({{.TSParams}}): {{.TSReturn}} {
    try {
      {{if not .Void}}return {{end}}{{.Module}}.{{.Function}}({{.Args}});
    } catch (error) {
      console.error(` + "`Error calling {{.Function}}: ${error}`" + `);
      throw error;
    }
  }

  static async {{.Function}}Async({{.TSParams}}): Promise<{{.TSReturn}}> {
    return new Promise((resolve, reject) => {
      try {
        resolve({{.Bridge}}.{{.Function}}({{.Args}}));
      } catch (error) {
        reject(error);
      }
    });
  }
}

export default {{.Bridge}};
`)

var napiCMakeTmpl = mustTemplate("CMakeLists.txt", `cmake_minimum_required(VERSION 3.16)
project({{.Module}})

set(NATIVERENDER_ROOT_PATH ${CMAKE_CURRENT_SOURCE_DIR})

if(DEFINED PACKAGE_FIND_FILE)
    include(${PACKAGE_FIND_FILE})
endif()

include_directories(${NATIVERENDER_ROOT_PATH}
                    ${NATIVERENDER_ROOT_PATH}/include)

add_library({{.Library}} SHARED
    napi/napi_init.cpp
    napi/{{.Function}}_napi.cpp
    # Add your C++ sources here
)

target_link_libraries({{.Library}} PUBLIC libace_napi.z.so libhilog_ndk.z.so)
`)

var ohPackageTmpl = mustTemplate("oh-package.json5", `{
  "name": "{{.Library}}",
  "version": "1.0.0",
  "description": "Native {{.Function}} bridge for HarmonyOS",
  "main": "index.ets",
  "author": "Generated Code",
  "license": "MIT",
  "dependencies": {}
}
`)

var buildProfileTmpl = mustTemplate("build-profile.json5", `{
  "apiType": 'stageMode',
  "targets": [
    {
      "name": "default",
      "runtimeOS": "HarmonyOS"
    }
  ]
}
`)
