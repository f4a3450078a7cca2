package emit

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/files"
)

// AndroidConfig configures the JNI emitter.
type AndroidConfig struct {
	// PackageName is the Java package, e.g. "com.example.math". Required.
	PackageName string
	// ClassName is the wrapper class name. Required.
	ClassName string
	// Language is "java" (default) or "kotlin".
	Language string
}

var (
	javaPackageRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	identifierRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Android emits JNI glue and a Java or Kotlin wrapper class.
type Android struct {
	cfg AndroidConfig
}

// NewAndroid validates cfg and returns the emitter.
func NewAndroid(cfg AndroidConfig) (*Android, error) {
	if cfg.Language == "" {
		cfg.Language = "java"
	}
	switch {
	case cfg.PackageName == "":
		return nil, &ConfigError{Platform: "android", Field: "package_name", Reason: "is required"}
	case !javaPackageRe.MatchString(cfg.PackageName):
		return nil, &ConfigError{Platform: "android", Field: "package_name", Reason: fmt.Sprintf("%q is not a valid package name", cfg.PackageName)}
	case cfg.ClassName == "":
		return nil, &ConfigError{Platform: "android", Field: "class_name", Reason: "is required"}
	case !identifierRe.MatchString(cfg.ClassName):
		return nil, &ConfigError{Platform: "android", Field: "class_name", Reason: fmt.Sprintf("%q is not a valid identifier", cfg.ClassName)}
	case cfg.Language != "java" && cfg.Language != "kotlin":
		return nil, &ConfigError{Platform: "android", Field: "language", Reason: fmt.Sprintf("must be java or kotlin, got %q", cfg.Language)}
	}
	return &Android{cfg: cfg}, nil
}

// Platform implements Emitter.
func (a *Android) Platform() string { return "android" }

var (
	jniTypes = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindVoid:    "void",
			cppiface.KindBoolean: "jboolean",
			cppiface.KindByte:    "jbyte",
			cppiface.KindShort:   "jshort",
			cppiface.KindInt:     "jint",
			cppiface.KindLong:    "jlong",
			cppiface.KindFloat:   "jfloat",
			cppiface.KindDouble:  "jdouble",
			cppiface.KindString:  "jstring",
		},
		opaque: "jobject",
	}
	javaTypes = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindVoid:    "void",
			cppiface.KindBoolean: "boolean",
			cppiface.KindByte:    "byte",
			cppiface.KindShort:   "short",
			cppiface.KindInt:     "int",
			cppiface.KindLong:    "long",
			cppiface.KindFloat:   "float",
			cppiface.KindDouble:  "double",
			cppiface.KindString:  "String",
		},
		opaque: "Object",
	}
	kotlinTypes = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindVoid:    "Unit",
			cppiface.KindBoolean: "Boolean",
			cppiface.KindByte:    "Byte",
			cppiface.KindShort:   "Short",
			cppiface.KindInt:     "Int",
			cppiface.KindLong:    "Long",
			cppiface.KindFloat:   "Float",
			cppiface.KindDouble:  "Double",
			cppiface.KindString:  "String",
		},
		opaque: "Any",
	}
	jniDefaults = typeTable{
		names: map[cppiface.Kind]string{
			cppiface.KindBoolean: "false",
			cppiface.KindByte:    "0",
			cppiface.KindShort:   "0",
			cppiface.KindInt:     "0",
			cppiface.KindLong:    "0L",
			cppiface.KindFloat:   "0.0f",
			cppiface.KindDouble:  "0.0",
		},
		opaque: "nullptr",
	}
)

type androidParam struct {
	Name     string
	IsString bool
}

type androidView struct {
	Function  string
	Include   string
	Call      string
	Package   string
	Class     string
	Library   string
	Symbol    string
	Void      bool
	StringRet bool

	JNIReturn    string
	JavaReturn   string
	KotlinReturn string
	Default      string

	Params       []androidParam
	JNIParams    string
	JavaParams   string
	KotlinParams string
	Args         string
	CallArgs     string
}

func (a *Android) view(pi *cppiface.ParsedInterface) androidView {
	v := androidView{
		Function:     pi.FunctionName,
		Include:      includeLine(pi),
		Call:         pi.QualifiedName(),
		Package:      a.cfg.PackageName,
		Class:        a.cfg.ClassName,
		Library:      strings.ToLower(a.cfg.ClassName),
		Symbol:       JNISymbol(a.cfg.PackageName, a.cfg.ClassName, pi.FunctionName),
		Void:         pi.ReturnsVoid(),
		StringRet:    pi.ReturnType.Is(cppiface.KindString),
		JNIReturn:    jniTypes.name(pi.ReturnType),
		JavaReturn:   javaTypes.name(pi.ReturnType),
		KotlinReturn: kotlinTypes.name(pi.ReturnType),
		Default:      jniDefaults.name(pi.ReturnType),
		Args:         paramNames(pi),
	}

	var jni, java, kotlin, call []string
	for _, p := range pi.Parameters {
		isString := p.Type.Is(cppiface.KindString)
		v.Params = append(v.Params, androidParam{Name: p.Name, IsString: isString})
		jni = append(jni, jniTypes.name(p.Type)+" "+p.Name)
		java = append(java, javaTypes.name(p.Type)+" "+p.Name)
		kotlin = append(kotlin, p.Name+": "+kotlinTypes.name(p.Type))
		if isString {
			call = append(call, p.Name+"_cpp")
		} else {
			call = append(call, p.Name)
		}
	}
	if len(jni) > 0 {
		v.JNIParams = ", " + strings.Join(jni, ", ")
	}
	v.JavaParams = strings.Join(java, ", ")
	v.KotlinParams = strings.Join(kotlin, ", ")
	v.CallArgs = strings.Join(call, ", ")
	return v
}

// JNISymbol returns the exported C symbol the JVM binds the native method
// to. Underscores are mangled to `_1` before package dots become `_`.
func JNISymbol(pkg, class, function string) string {
	return fmt.Sprintf("Java_%s_%s_%s",
		strings.ReplaceAll(jniMangle(pkg), ".", "_"), jniMangle(class), jniMangle(function+"Native"))
}

// jniMangle escapes `_` for a JNI short name. Validated names are ASCII
// identifiers, so no other escapes are needed.
func jniMangle(s string) string {
	return strings.ReplaceAll(s, "_", "_1")
}

// Emit implements Emitter.
func (a *Android) Emit(pi *cppiface.ParsedInterface, w files.Writer) ([]string, error) {
	pkgDir := strings.ReplaceAll(a.cfg.PackageName, ".", "/")
	wrapper := file{
		path: path.Join("android/src/main/java", pkgDir, a.cfg.ClassName+".java"),
		tmpl: javaWrapperTmpl,
	}
	if a.cfg.Language == "kotlin" {
		wrapper = file{
			path: path.Join("android/src/main/kotlin", pkgDir, a.cfg.ClassName+".kt"),
			tmpl: kotlinWrapperTmpl,
		}
	}

	return writeFiles(w, a.view(pi), []file{
		{path: "android/jni/" + pi.FunctionName + "_jni.cpp", tmpl: jniSourceTmpl},
		{path: "android/jni/" + pi.FunctionName + "_jni.h", tmpl: jniHeaderTmpl},
		wrapper,
		{path: "android/jni/CMakeLists.txt", tmpl: jniCMakeTmpl},
		{path: "android/build.gradle.jni", tmpl: gradleTmpl},
	})
}

var jniSourceTmpl = mustTemplate("jni.cpp", `#include <jni.h>
#include <string>
#include "{{.Function}}_jni.h"
{{.Include}}

extern "C" {

JNIEXPORT {{.JNIReturn}} JNICALL
{{.Symbol}}(JNIEnv *env, jobject thiz{{.JNIParams}}) {
{{- range .Params}}{{if .IsString}}
    const char* {{.Name}}_chars = env->GetStringUTFChars({{.Name}}, nullptr);
    std::string {{.Name}}_cpp({{.Name}}_chars);
    env->ReleaseStringUTFChars({{.Name}}, {{.Name}}_chars);
{{- end}}{{end}}

    try {
        {{if not .Void}}auto result = {{end}}{{.Call}}({{.CallArgs}});
{{- if .StringRet}}
        return env->NewStringUTF(result.c_str());
{{- else if not .Void}}
        return result;
{{- end}}
    } catch (const std::exception& e) {
        jclass exceptionClass = env->FindClass("java/lang/RuntimeException");
        env->ThrowNew(exceptionClass, e.what());
        return{{if not .Void}} {{.Default}}{{end}};
    }
}

} // extern "C"
`)

var jniHeaderTmpl = mustTemplate("jni.h", `#ifndef {{upper .Function}}_JNI_H
#define {{upper .Function}}_JNI_H

#include <jni.h>

extern "C" {

/**
 * JNI wrapper for {{.Function}}
 */
JNIEXPORT {{.JNIReturn}} JNICALL
{{.Symbol}}(JNIEnv *env, jobject thiz{{.JNIParams}});

} // extern "C"

#endif // {{upper .Function}}_JNI_H
`)

var javaWrapperTmpl = mustTemplate("wrapper.java", `package {{.Package}};

/**
 * JNI wrapper class for {{.Function}}
 * Generated automatically - do not modify
 */
public class {{.Class}} {

    static {
        System.loadLibrary("{{.Library}}");
    }

    private native {{.JavaReturn}} {{.Function}}Native({{.JavaParams}});

    public {{.JavaReturn}} {{.Function}}({{.JavaParams}}) {
        {{if not .Void}}return {{end}}{{.Function}}Native({{.Args}});
    }
}
`)

var kotlinWrapperTmpl = mustTemplate("wrapper.kt", `package {{.Package}}

/**
 * JNI wrapper class for {{.Function}}
 * Generated automatically - do not modify
 */
class {{.Class}} {

    companion object {
        init {
            System.loadLibrary("{{.Library}}")
        }
    }

    private external fun {{.Function}}Native({{.KotlinParams}}): {{.KotlinReturn}}

    fun {{.Function}}({{.KotlinParams}}): {{.KotlinReturn}} {
        {{if not .Void}}return {{end}}{{.Function}}Native({{.Args}})
    }
}
`)

var jniCMakeTmpl = mustTemplate("CMakeLists.txt", `cmake_minimum_required(VERSION 3.10.2)

project("{{.Library}}")

set(CMAKE_CXX_STANDARD 17)

add_library({{.Library}} SHARED
    {{.Function}}_jni.cpp
    # Add your C++ sources here
)

find_library(log-lib log)

target_link_libraries({{.Library}}
    ${log-lib}
)

target_include_directories({{.Library}} PRIVATE
    .
)
`)

var gradleTmpl = mustTemplate("build.gradle.jni", `// Merge into app/build.gradle

android {
    compileSdk 33

    defaultConfig {
        minSdk 21
        targetSdk 33

        ndk {
            abiFilters 'arm64-v8a', 'armeabi-v7a', 'x86', 'x86_64'
        }
    }

    externalNativeBuild {
        cmake {
            path "jni/CMakeLists.txt"
            version "3.10.2"
        }
    }
}
`)
